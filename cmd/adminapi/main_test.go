package main

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"adminapi/internal/config"
	"adminapi/internal/http/handler"
	"adminapi/internal/http/middleware"
	"adminapi/internal/service"
	svcMocks "adminapi/internal/service/mocks"
)

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate", "seed"}, names)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestConfigFlag(t *testing.T) {
	t.Setenv("ADMINAPI_CONFIG", "")

	var got string
	cmd := newRootCmd()
	cmd.AddCommand(&cobra.Command{
		Use: "show-config",
		RunE: func(*cobra.Command, []string) error {
			got = os.Getenv("ADMINAPI_CONFIG")
			return nil
		},
	})
	cmd.SetArgs([]string{"--config", "/etc/adminapi.yaml", "show-config"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "/etc/adminapi.yaml", got)
}

func TestSetup_ConfigFileMissing(t *testing.T) {
	t.Setenv("ADMINAPI_CONFIG", t.TempDir()+"/absent.yaml")

	cfg, tz, err := setup()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config_load_failed")
	assert.Nil(t, cfg)
	assert.Nil(t, tz)
}

func TestNewApp(t *testing.T) {
	metrics, err := middleware.NewPrometheusMiddleware(prometheus.NewRegistry())
	require.NoError(t, err)

	cfg := &config.AppConfig{CORS: config.CORSConfig{
		Enabled:       true,
		AllowOrigins:  []string{"http://localhost:5173"},
		ExposeHeaders: []string{"X-Request-ID"},
	}}
	app := newApp(cfg, metrics)
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/panic", func(c *fiber.Ctx) error { panic("boom") })

	t.Run("cors and request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	})

	t.Run("recovers panics", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func avatarUpload(t *testing.T, size int) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="file"; filename="me.png"`)
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0x89}, size))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPut, "/avatar", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestNewApp_AvatarBodyLimit(t *testing.T) {
	metrics, err := middleware.NewPrometheusMiddleware(prometheus.NewRegistry())
	require.NoError(t, err)

	users := new(svcMocks.MockUserService)
	app := newApp(&config.AppConfig{}, metrics)
	app.Put("/avatar", handler.UploadAvatar(users))

	t.Run("just under the avatar cap", func(t *testing.T) {
		size := service.MaxAvatarSize - 600<<10
		users.On("UploadAvatar", mock.Anything, mock.Anything, mock.Anything, "image/png", int64(size)).
			Return("http://minio/avatars/1/me.png", nil).Once()

		resp, err := app.Test(avatarUpload(t, size), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		users.AssertExpectations(t)
	})

	t.Run("far beyond the cap", func(t *testing.T) {
		resp, err := app.Test(avatarUpload(t, bodyLimit+1), -1)
		if err != nil {
			assert.ErrorContains(t, err, "body size exceeds")
			return
		}
		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
		users.AssertNotCalled(t, "UploadAvatar", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
