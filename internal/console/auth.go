package console

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/telar-erp/telar-admin/internal/erp"
)

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type loginPageData struct {
	Form   loginForm
	Errors map[string]string
}

// ShowLogin renders the login form. An operator with a live session has no
// business here and goes straight to the dashboard.
func (h *Handler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Resolving() && h.sessions.Current() != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.render(w, r, "pages/login.html", "Iniciar sesión", loginPageData{})
}

// HandleLogin validates the form and runs the credential exchange. The
// backend's rejection surfaces as one generic message; field-level issues
// are reported per field.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := loginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	formErrors := make(map[string]string)
	if err := h.validate.Struct(form); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			switch fieldErr.Field() {
			case "Email":
				formErrors["Email"] = "Ingresa un correo válido"
			case "Password":
				formErrors["Password"] = "Ingresa tu contraseña"
			}
		}
	}

	if len(formErrors) == 0 {
		_, err := h.resolver.Login(r.Context(), form.Email, form.Password)
		if err == nil {
			h.metrics.ObserveLogin("success")
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		h.metrics.ObserveLogin("failure")
		h.logger.Info("login rejected", slog.String("email", form.Email))
		formErrors["general"] = loginErrorMessage(err)
	}

	form.Password = ""
	w.WriteHeader(http.StatusBadRequest)
	h.render(w, r, "pages/login.html", "Iniciar sesión", loginPageData{Form: form, Errors: formErrors})
}

// HandleLogout destroys the session and returns to the login screen.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.resolver.Logout(r.Context())
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func loginErrorMessage(err error) string {
	if errors.Is(err, erp.ErrUnavailable) {
		return "No se pudo contactar el servicio ERP, intenta de nuevo"
	}
	return "Correo o contraseña incorrectos"
}
