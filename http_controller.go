package signup

import (
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-signup/middleware/jwtware"
)

// TokenResponse is the envelope returned by register and login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MessageResponse wraps human-readable operation outcomes
type MessageResponse struct {
	Message string `json:"message"`
}

// APIController serves the JSON API: auth endpoints plus the activity
// roster operations.
type APIController struct {
	Logger       Logger
	Auther       Authenticator
	Roster       *Roster
	ContextKey   string
	ErrorHandler func(*fiber.Ctx, error) error
}

type APIControllerOption func(*APIController) *APIController

func NewAPIController(opts ...APIControllerOption) *APIController {
	c := &APIController{
		Logger:     defLogger{},
		ContextKey: "session",
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in API controller...")
	}

	if c.Roster == nil {
		panic("Missing Roster in API controller...")
	}

	if c.ErrorHandler == nil {
		c.ErrorHandler = c.renderError
	}

	return c
}

// RegisterAPIRoutes mounts the API on the given app. Activity mutations sit
// behind the JWT middleware; the catalogue listing and auth endpoints do not.
func RegisterAPIRoutes(app *fiber.App, controller *APIController) {
	protected := jwtware.New(jwtware.Config{
		TokenValidator: tokenValidatorAdapter{controller.Auther},
		ContextKey:     controller.ContextKey,
		ErrorHandler:   controller.authErrorHandler,
	})

	app.Post("/auth/register", controller.RegisterPost)
	app.Post("/auth/login", controller.LoginPost)
	app.Post("/auth/logout", controller.LogoutPost)
	app.Get("/auth/me", protected, controller.MeShow)

	app.Get("/activities", controller.ActivitiesIndex)
	app.Post("/activities/:name/signup", protected, controller.SignupPost)
	app.Delete("/activities/:name/unregister", protected, controller.UnregisterDelete)
}

// NewApp builds a fiber app with the API mounted. UnescapePath matters:
// activity names contain spaces and arrive percent encoded.
func NewApp(controller *APIController) *fiber.App {
	app := fiber.New(fiber.Config{
		UnescapePath:          true,
		DisableStartupMessage: true,
	})

	RegisterAPIRoutes(app, controller)

	return app
}

// tokenValidatorAdapter narrows the Authenticator to the jwtware contract.
type tokenValidatorAdapter struct {
	auther Authenticator
}

func (a tokenValidatorAdapter) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := a.auther.SessionFromToken(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// RegisterRequest payload
type RegisterRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.EmailFormat,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.EmailFormat,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *APIController) RegisterPost(c *fiber.Ctx) error {
	payload := new(RegisterRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("register parse payload", "error", err)
		return a.ErrorHandler(c, errors.Wrap(err, errors.CategoryBadInput, "failed to parse request body").
			WithCode(errors.CodeBadRequest))
	}

	if err := errors.ValidateWithOzzo(payload.Validate, "invalid registration payload"); err != nil {
		a.Logger.Info("register validate payload", "error", err)
		return a.ErrorHandler(c, err)
	}

	token, err := a.Auther.Register(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return a.ErrorHandler(c, err)
	}

	return c.JSON(TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func (a *APIController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return a.ErrorHandler(c, errors.Wrap(err, errors.CategoryBadInput, "failed to parse request body").
			WithCode(errors.CodeBadRequest))
	}

	if err := errors.ValidateWithOzzo(payload.Validate, "invalid login payload"); err != nil {
		a.Logger.Info("login validate payload", "error", err)
		return a.ErrorHandler(c, err)
	}

	token, err := a.Auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return a.ErrorHandler(c, err)
	}

	return c.JSON(TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// LogoutPost exists for front-end symmetry. Tokens are stateless: the
// server holds no session table, so the token stays valid until expiry.
func (a *APIController) LogoutPost(c *fiber.Ctx) error {
	return c.JSON(MessageResponse{Message: "Logged out successfully"})
}

func (a *APIController) MeShow(c *fiber.Ctx) error {
	claims, ok := jwtware.ClaimsFromContext(c, a.ContextKey)
	if !ok {
		return a.ErrorHandler(c, ErrUnauthenticated)
	}

	return c.JSON(fiber.Map{"email": claims.Subject()})
}

func (a *APIController) ActivitiesIndex(c *fiber.Ctx) error {
	return c.JSON(a.Roster.List())
}

func (a *APIController) SignupPost(c *fiber.Ctx) error {
	name := c.Params("name")

	claims, ok := jwtware.ClaimsFromContext(c, a.ContextKey)
	if !ok {
		return a.ErrorHandler(c, ErrUnauthenticated)
	}

	// The acting identity is always the token subject. Accepting an email
	// parameter would let one user sign up another.
	email := claims.Subject()

	if err := a.Roster.Signup(name, email); err != nil {
		a.Logger.Info("signup rejected", "activity", name, "email", email, "error", err)
		return a.ErrorHandler(c, err)
	}

	a.Logger.Info("signup", "activity", name, "email", email)

	return c.JSON(MessageResponse{
		Message: fmt.Sprintf("Signed up %s for %s", email, name),
	})
}

func (a *APIController) UnregisterDelete(c *fiber.Ctx) error {
	name := c.Params("name")

	claims, ok := jwtware.ClaimsFromContext(c, a.ContextKey)
	if !ok {
		return a.ErrorHandler(c, ErrUnauthenticated)
	}

	email := claims.Subject()

	if err := a.Roster.Unregister(name, email); err != nil {
		a.Logger.Info("unregister rejected", "activity", name, "email", email, "error", err)
		return a.ErrorHandler(c, err)
	}

	a.Logger.Info("unregister", "activity", name, "email", email)

	return c.JSON(MessageResponse{
		Message: fmt.Sprintf("Unregistered %s from %s", email, name),
	})
}

// authErrorHandler folds token extraction failures into the gate error so
// a missing header and a garbage token look the same to the client.
func (a *APIController) authErrorHandler(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		err = ErrUnauthenticated
	}
	return a.renderError(c, err)
}

func (a *APIController) renderError(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		a.Logger.Error("unexpected error", "error", err)
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	status := richErr.Code
	if status < http.StatusBadRequest || status > http.StatusNetworkAuthenticationRequired {
		status = statusFromCategory(richErr.Category)
	}

	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"message":   richErr.Message,
			"text_code": richErr.TextCode,
		},
	})
}

func statusFromCategory(category errors.Category) int {
	switch category {
	case errors.CategoryAuth, errors.CategoryAuthz:
		return http.StatusUnauthorized
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryValidation, errors.CategoryBadInput, errors.CategoryConflict:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
