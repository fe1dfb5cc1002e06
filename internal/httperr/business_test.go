package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestIsBusiness(t *testing.T) {
	err := ErrBusiness("not_available")
	assert.True(t, IsBusiness(err, "not_available"))
	assert.False(t, IsBusiness(err, "not_owner"))
	assert.False(t, IsBusiness(errors.New("boom"), "not_available"))

	wrapped := fmt.Errorf("usecase: %w", err)
	assert.True(t, IsBusiness(wrapped, "not_available"))
}

func TestWriteBusiness(t *testing.T) {
	gin.SetMode(gin.TestMode)

	write := func(err error) (*httptest.ResponseRecorder, bool) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		return w, WriteBusiness(c, err)
	}

	t.Run("not found codes map to 404", func(t *testing.T) {
		for _, code := range []string{"appointment_not_found", "therapy_not_found", "user_not_found"} {
			w, handled := write(ErrBusiness(code))
			assert.True(t, handled)
			assert.Equal(t, http.StatusNotFound, w.Code, code)
		}
	})

	t.Run("conflict codes map to 409", func(t *testing.T) {
		for _, code := range []string{"already_joined", "appointment_full", "not_deletable", "user_exists"} {
			w, handled := write(ErrBusiness(code))
			assert.True(t, handled)
			assert.Equal(t, http.StatusConflict, w.Code, code)
		}
	})

	t.Run("ownership maps to 403", func(t *testing.T) {
		w, handled := write(ErrBusiness("not_owner"))
		assert.True(t, handled)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("everything else maps to 400", func(t *testing.T) {
		w, handled := write(ErrBusiness("not_available"))
		assert.True(t, handled)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown code falls back to the code text", func(t *testing.T) {
		w, handled := write(ErrBusiness("some_new_rule"))
		assert.True(t, handled)
		assert.Contains(t, w.Body.String(), "some_new_rule")
	})

	t.Run("non business errors are not handled", func(t *testing.T) {
		_, handled := write(errors.New("dynamo timeout"))
		assert.False(t, handled)
	})
}
