package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Single, shared credentials payload for both sign-up and sign-in. Field
// rules are enforced by the account service so the user sees its messages.
type authCredentials struct {
	Username string `json:"username" example:"alice"`
	Pin      string `json:"pin" example:"1234"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled, true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("auth_bad_request_body", "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// @Summary      Create account
// @Description  Creates an account, signs it in and returns the session view.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      authCredentials  true  "username and 4-digit PIN"
// @Success      200    {object}  service.SessionView
// @Failure      400    {object}  map[string]string
// @Failure      409    {object}  map[string]string
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	view, err := h.services.CreateAccount(c.Request.Context(), input.Username, input.Pin)
	if err != nil {
		h.respondError(c, "auth_sign_up_failed", err, "username", input.Username)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary      Sign in
// @Description  Signs in and runs the automatic search for the account's last city.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      authCredentials  true  "username and 4-digit PIN"
// @Success      200    {object}  service.SessionView
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	view, err := h.services.SignIn(c.Request.Context(), input.Username, input.Pin)
	if err != nil {
		h.respondError(c, "auth_sign_in_failed", err, "username", input.Username)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/sign-out [post]
func (h *Handler) signOut(c *gin.Context) {
	if err := h.services.SignOut(c.Request.Context()); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errSignOut, "auth_sign_out_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSignedOut})
}

// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  service.SessionView
// @Router       /auth/session [get]
func (h *Handler) session(c *gin.Context) {
	view, err := h.services.Session(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadSession, "auth_session_failed", err)
		return
	}
	c.JSON(http.StatusOK, view)
}
