package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange credentials for a console session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			rt, err := newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			reader := bufio.NewReader(os.Stdin)
			if email == "" {
				fmt.Print("correo: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				email = strings.TrimSpace(line)
			}
			fmt.Print("contraseña: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			password := strings.TrimRight(line, "\r\n")

			id, err := rt.resolver.Login(ctx, email, password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			fmt.Printf("sesión iniciada como %s (%s)\n", id.Email, id.RoleName)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Destroy the persisted console session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			rt, err := newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.close()
			rt.resolver.Logout(ctx)
			fmt.Println("sesión cerrada")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Resolve and print the current identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			rt, err := newRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			rt.resolver.Bootstrap(ctx)
			id := rt.store.Current()
			if id == nil {
				fmt.Println("sin sesión activa")
				return nil
			}
			fmt.Printf("%s (%s)\n", id.Email, id.RoleName)
			if len(id.Permissions) > 0 {
				fmt.Println("permisos:")
				for _, p := range id.Permissions {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}
}
