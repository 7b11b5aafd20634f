package authControllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/GoncharovAlexandr/onshp/apperr"
	"github.com/GoncharovAlexandr/onshp/auth"
	"github.com/GoncharovAlexandr/onshp/middleware"
	"github.com/GoncharovAlexandr/onshp/models"
	"github.com/GoncharovAlexandr/onshp/stores"
)

type RegisterInput struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
	Phone    string `json:"phone" form:"phone"`
	Address  string `json:"address" form:"address"`
}

type AdminRegisterInput struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// LoginInput accepts both the JSON body ({email, password}) and the login
// form, which posts the email under "username".
type LoginInput struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password" binding:"required"`
}

func (in LoginInput) email() string {
	if in.Email != "" {
		return in.Email
	}
	return in.Username
}

// wantsRedirect reports whether the request came from an HTML form; those
// flows redirect on success instead of returning JSON.
func wantsRedirect(c *gin.Context) bool {
	ct := c.ContentType()
	return ct == "application/x-www-form-urlencoded" || strings.HasPrefix(ct, "multipart/form-data")
}

// POST /user/auth/register
func RegisterCustomer(s *stores.Clients) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var existing models.Customer
		err := s.DB.Where("email = ?", input.Email).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": apperr.ErrDuplicateEmail.Error()})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
			return
		}

		customer := models.Customer{
			Name:     input.Name,
			Email:    input.Email,
			Password: string(hash),
			Phone:    input.Phone,
			Address:  input.Address,
		}
		if err := s.DB.Create(&customer).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
			return
		}

		// Seed the profile document so /user/me resolves; the stores are not
		// transactional across each other, so a failure here only logs.
		profile := models.UserProfile{CustomerID: customer.ID, Name: customer.Name, Email: customer.Email}
		if err := s.Profiles.Upsert(c.Request.Context(), profile); err != nil {
			log.Printf("failed to seed profile for customer %d: %v", customer.ID, err)
		}

		if wantsRedirect(c) {
			c.Redirect(http.StatusSeeOther, "/user/auth/jwt/login")
			return
		}
		c.JSON(http.StatusCreated, customer)
	}
}

// POST /user/auth/jwt/login. The path is kept from the old frontend; the
// handler issues an opaque cookie session, not a JWT.
func LoginCustomer(s *stores.Clients) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBind(&input); err != nil || input.email() == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
			return
		}

		var customer models.Customer
		if err := s.DB.Where("email = ?", input.email()).First(&customer).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(input.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}

		sess, err := issueSession(c.Request.Context(), s.Sessions, auth.RoleCustomer, customer.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}
		setSessionCookie(c, sess.Token)

		if wantsRedirect(c) {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Login successful", "session_id": sess.Token})
	}
}

// POST /user/auth/admin/register
func RegisterAdmin(s *stores.Clients) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AdminRegisterInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
			return
		}

		var existing models.Admin
		err := s.DB.Where("email = ?", input.Email).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": apperr.ErrDuplicateEmail.Error()})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register admin"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register admin"})
			return
		}

		admin := models.Admin{Email: input.Email, Password: string(hash)}
		if err := s.DB.Create(&admin).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register admin"})
			return
		}
		c.JSON(http.StatusCreated, admin)
	}
}

// POST /user/auth/admin/login
func LoginAdmin(s *stores.Clients) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBind(&input); err != nil || input.email() == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
			return
		}

		var admin models.Admin
		if err := s.DB.Where("email = ?", input.email()).First(&admin).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(input.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		sess, err := issueSession(c.Request.Context(), s.Sessions, auth.RoleAdmin, admin.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}
		setSessionCookie(c, sess.Token)

		if wantsRedirect(c) {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
		c.JSON(http.StatusOK, gin.H{"session_id": sess.Token})
	}
}

// POST /user/auth/logout
func Logout(s *stores.Clients) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.CurrentSession(c)
		if sess.Role != auth.Anonymous {
			if err := s.Sessions.Delete(c.Request.Context(), sess.Token); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to end session"})
				return
			}
		}
		c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

// issueSession enforces one live session per account: a still-live session is
// reused with refreshed last_activity and TTL instead of minting a second
// token. The lookup scans every live session.
func issueSession(ctx context.Context, sessions stores.SessionStore, role auth.Role, accountID uint) (auth.Session, error) {
	if sess, ok, err := sessions.FindByAccount(ctx, role, accountID); err != nil {
		return auth.Session{}, err
	} else if ok {
		sess.Touch()
		return sess, sessions.Put(ctx, sess)
	}
	sess := auth.NewSession(role, accountID)
	return sess, sessions.Put(ctx, sess)
}

// setSessionCookie sets the httponly session cookie on path /. The Secure
// flag stays off to match the plaintext local-transport setup.
func setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(auth.CookieName, token, int(auth.SessionTTL.Seconds()), "/", "", false, true)
}
