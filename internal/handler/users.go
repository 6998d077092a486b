package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lfcamara/user-auth-service/internal/model"
	"github.com/lfcamara/user-auth-service/internal/repository"
)

// UsersHandler exposes admin-side user directory operations: listing,
// role changes, activation toggles and deletion. All routes behind it
// require the admin role.
type UsersHandler struct {
	Users *repository.UserRepo
}

func NewUsersHandler(u *repository.UserRepo) *UsersHandler {
	return &UsersHandler{Users: u}
}

type updateRoleReq struct {
	Role string `json:"role"`
}

// List returns every user as a public projection.
func (h *UsersHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	users, err := h.Users.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list users failed"})
	}
	if users == nil {
		users = []model.PublicUser{}
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateRole changes a user's role to one of the known values.
func (h *UsersHandler) UpdateRole(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req updateRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	role := model.Role(strings.TrimSpace(req.Role))
	if !role.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Users.UpdateRole(ctx, id, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update role failed"})
	}
	u, err := h.Users.FindByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, u.Public())
}

// Activate re-enables a disabled account.
func (h *UsersHandler) Activate(c echo.Context) error {
	return h.setActive(c, true)
}

// Deactivate disables an account; its credentials stop authenticating
// but existing rows are kept.
func (h *UsersHandler) Deactivate(c echo.Context) error {
	return h.setActive(c, false)
}

func (h *UsersHandler) setActive(c echo.Context, active bool) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Users.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a user together with all owned tokens.
func (h *UsersHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete user failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}
