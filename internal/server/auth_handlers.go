package server

import (
	"strings"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

// SignupPage renders the registration form.
func (s *Server) SignupPage(c *fiber.Ctx) error {
	if s.currentUser(c) != nil {
		return c.Redirect("/")
	}
	return s.render(c, "signup", fiber.Map{
		"Errors":   map[string]string{},
		"Username": "",
		"Email":    "",
	})
}

// Signup registers a new account and logs it in.
func (s *Server) Signup(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.FormValue("username"))
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")
	confirm := c.FormValue("password2")

	errs := map[string]string{}
	if username == "" {
		errs["username"] = "Username is required"
	}
	if email == "" || !strings.Contains(email, "@") {
		errs["email"] = "A valid email is required"
	}
	if len(password) < 8 {
		errs["password"] = "Password must be at least 8 characters"
	}
	if password != confirm {
		errs["password2"] = "Passwords do not match"
	}

	if len(errs) == 0 {
		if _, err := s.userRepo.GetByUsername(c.Context(), username); err == nil {
			errs["username"] = "Username is already taken"
		}
	}

	if len(errs) > 0 {
		return s.render(c, "signup", fiber.Map{
			"Errors":   errs,
			"Username": username,
			"Email":    email,
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
	}
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		errs["username"] = "Could not create account"
		return s.render(c, "signup", fiber.Map{
			"Errors":   errs,
			"Username": username,
			"Email":    email,
		})
	}

	if err := s.loginSession(c, user.ID); err != nil {
		return err
	}
	return c.Redirect("/")
}

// LoginPage renders the login form.
func (s *Server) LoginPage(c *fiber.Ctx) error {
	if s.currentUser(c) != nil {
		return c.Redirect(safeNext(c.Query("next")))
	}
	return s.render(c, "login", fiber.Map{
		"Next":     c.Query("next"),
		"Username": "",
		"Errors":   map[string]string{},
	})
}

// Login authenticates a user by username and password.
func (s *Server) Login(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	next := c.FormValue("next")

	user, err := s.userRepo.GetByUsername(c.Context(), username)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return s.render(c, "login", fiber.Map{
			"Next":     next,
			"Username": username,
			"Errors":   map[string]string{"login": "Invalid username or password"},
		})
	}

	if err := s.loginSession(c, user.ID); err != nil {
		return err
	}
	return c.Redirect(safeNext(next))
}

// Logout clears the session.
func (s *Server) Logout(c *fiber.Ctx) error {
	if sess, err := s.sessions.Get(c); err == nil {
		_ = sess.Destroy()
	}
	return c.Redirect("/")
}

func (s *Server) loginSession(c *fiber.Ctx, userID uint) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return models.NewInternalError(err)
	}
	// Fresh session ID on privilege change.
	if err := sess.Regenerate(); err != nil {
		return models.NewInternalError(err)
	}
	sess.Set("userID", userID)
	if err := sess.Save(); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
