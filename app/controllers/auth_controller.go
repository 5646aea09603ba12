package controllers

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	gothfiber "github.com/shareed2k/goth_fiber"
	"github.com/sujit-baniya/flash"

	"github.com/Bysiu/designstron-sub001/app/models"
	"github.com/Bysiu/designstron-sub001/app/repository"
	"github.com/Bysiu/designstron-sub001/internal/pkg/database"
	"github.com/Bysiu/designstron-sub001/internal/pkg/env"
	"github.com/Bysiu/designstron-sub001/internal/pkg/mail"
	"github.com/Bysiu/designstron-sub001/internal/pkg/session"
)

// HandleRegister creates an inactive customer account and mails the
// activation link.
func HandleRegister(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type": "error",
	}

	user, err := models.CreateUser(
		c.FormValue("name"),
		c.FormValue("email"),
		c.FormValue("password"),
	)
	if err != nil {
		fm["message"] = "Please check your name, email and password"

		return flash.WithError(c, fm).Redirect("/register")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if existing, err := repo.GetByEmail(user.Email); err == nil && existing != nil {
		fm["message"] = "This email address is already registered"

		return flash.WithError(c, fm).Redirect("/register")
	}

	if err := user.GenerateActivationToken(); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/register")
	}

	if err := repo.Create(user); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/register")
	}

	activationURL := fmt.Sprintf("%s/activate/%s",
		env.GetEnv("PUBLIC_DOMAIN", "http://localhost:4000"), user.ActivationToken)
	go func() {
		body := fmt.Sprintf("<p>Welcome to Designstron!</p><p>Activate your account: <a href=%q>%s</a></p>",
			activationURL, activationURL)
		if err := mail.SendMail(user.Email, "Activate your Designstron account", body); err != nil {
			log.Printf("activation mail to %s failed: %v", user.Email, err)
		}
	}()

	fm = fiber.Map{
		"type":    "success",
		"message": "Account created. Please check your inbox for the activation link.",
	}

	return flash.WithSuccess(c, fm).Redirect("/login")
}

// HandleActivate flips an account to active via its activation token.
func HandleActivate(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type": "error",
	}

	token := c.Params("token")
	repo := repository.GetGlobalFactory().GetUserRepository()

	user, err := repo.GetByActivationToken(token)
	if err != nil {
		fm["message"] = "Invalid or expired activation link"

		return flash.WithError(c, fm).Redirect("/login")
	}

	user.Status = models.STATUS_ACTIVE
	user.ActivationToken = ""
	if err := repo.Update(user); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/login")
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "Account activated. You can log in now.",
	}

	return flash.WithSuccess(c, fm).Redirect("/login")
}

// HandleLogin authenticates a customer and establishes the session.
func HandleLogin(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type": "error",
	}

	// notice: in production you should not inform the user
	// with detailed messages about login failures
	var user models.User
	result := database.GetDB().Where("email = ?", c.FormValue("email")).First(&user)
	if result.Error != nil {
		fm["message"] = "There is a problem with the login process"

		return flash.WithError(c, fm).Redirect("/login")
	}

	if !models.CheckPasswordHash(c.FormValue("password"), user.Password) {
		fm["message"] = "There is a problem with the login process"

		return flash.WithError(c, fm).Redirect("/login")
	}

	if !user.IsActive() {
		fm["message"] = "Please activate your account first"

		return flash.WithError(c, fm).Redirect("/login")
	}

	if err := establishSession(c, &user); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/login")
	}

	database.GetDB().Model(&user).Update("last_login_at", time.Now())

	fm = fiber.Map{
		"type":    "success",
		"message": "Welcome back!",
	}

	return flash.WithSuccess(c, fm).Redirect("/orders")
}

// HandleLogout destroys the session.
func HandleLogout(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type": "error",
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		fm["message"] = "logged out (no sess)"

		return flash.WithError(c, fm).Redirect("/login")
	}

	if err := sess.Destroy(); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/login")
	}

	c.Locals(FROM_PROTECTED, false)

	fm = fiber.Map{
		"type":    "success",
		"message": "You have been logged out.",
	}

	return flash.WithSuccess(c, fm).Redirect("/")
}

// HandleOAuthLogin starts the OAuth flow for the provider in the URL.
func HandleOAuthLogin(c *fiber.Ctx) error {
	return gothfiber.BeginAuthHandler(c)
}

// HandleOAuthCallback completes the OAuth flow: existing accounts log in,
// unknown emails get an active account without a usable password.
func HandleOAuthCallback(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type": "error",
	}

	gothUser, err := gothfiber.CompleteUserAuth(c)
	if err != nil {
		fm["message"] = "There is a problem with the login process"

		return flash.WithError(c, fm).Redirect("/login")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(gothUser.Email)
	if err != nil {
		name := gothUser.Name
		if name == "" {
			name = gothUser.Email
		}
		user = &models.User{
			Name:   name,
			Email:  gothUser.Email,
			Role:   models.ROLE_CUSTOMER,
			Status: models.STATUS_ACTIVE,
		}
		// OAuth accounts never log in by password; store a random one.
		if err := user.SetPassword(gothUser.UserID + gothUser.AccessToken); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}
		if err := repo.Create(user); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}
	}

	if !user.IsActive() {
		fm["message"] = "This account is not active"

		return flash.WithError(c, fm).Redirect("/login")
	}

	if err := establishSession(c, user); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/login")
	}

	database.GetDB().Model(user).Update("last_login_at", time.Now())

	fm = fiber.Map{
		"type":    "success",
		"message": "Welcome back!",
	}

	return flash.WithSuccess(c, fm).Redirect("/orders")
}

func establishSession(c *fiber.Ctx, user *models.User) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return err
	}

	sess.Set(AUTH_KEY, true)
	sess.Set(USER_ID, user.ID)
	sess.Set(USER_NAME, user.Name)
	sess.Set(USER_IS_ADMIN, user.IsAdmin())

	return sess.Save()
}
