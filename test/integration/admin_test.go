//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdminGateAndUserManagement(t *testing.T) {
	server := newTestServer(t)
	adminToken := login(t, server, "admin", "admin123")

	register := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/register", map[string]string{
		"username": "maria", "password": "secret",
	}, "")
	require.Equal(t, http.StatusCreated, register.StatusCode)
	register.Body.Close()
	mariaToken := login(t, server, "maria", "secret")

	t.Run("regular user is rejected with 403", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, server.URL+"/api/v1/admin/users", nil, mariaToken)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("admin sees users with derived progress", func(t *testing.T) {
		// maria completes 6 of the 12 lessons.
		for lesson := 1; lesson <= 6; lesson++ {
			resp := doJSON(t, http.MethodPost, server.URL+"/api/v1/progress", map[string]any{
				"lesson_id": lesson, "is_completed": true,
			}, mariaToken)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			resp.Body.Close()
		}

		resp := doJSON(t, http.MethodGet, server.URL+"/api/v1/admin/users", nil, adminToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list struct {
			Users []struct {
				Username string `json:"username"`
				Progress int    `json:"progress"`
			} `json:"users"`
		}
		require.NoError(t, json.Unmarshal(decodeBody(t, resp).Data, &list))
		require.Len(t, list.Users, 2)

		byName := map[string]int{}
		for _, u := range list.Users {
			byName[u.Username] = u.Progress
		}
		require.Equal(t, 50, byName["maria"])
		require.Equal(t, 0, byName["admin"])
	})

	t.Run("toggle admin and self-toggle rejection", func(t *testing.T) {
		resp := doJSON(t, http.MethodPut, server.URL+"/api/v1/admin/users/2/admin", map[string]bool{
			"is_admin": true,
		}, adminToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		self := doJSON(t, http.MethodPut, server.URL+"/api/v1/admin/users/1/admin", map[string]bool{
			"is_admin": false,
		}, adminToken)
		require.Equal(t, http.StatusBadRequest, self.StatusCode)
		self.Body.Close()
	})

	t.Run("stats aggregate over all accounts", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, server.URL+"/api/v1/admin/stats", nil, adminToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stats struct {
			TotalUsers  int     `json:"total_users"`
			AdminCount  int     `json:"admin_count"`
			AvgProgress float64 `json:"avg_progress"`
		}
		require.NoError(t, json.Unmarshal(decodeBody(t, resp).Data, &stats))
		require.Equal(t, 2, stats.TotalUsers)
		require.Equal(t, 2, stats.AdminCount) // maria was promoted above
		require.InDelta(t, 25.0, stats.AvgProgress, 0.01)
	})

	t.Run("self-delete is rejected", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, server.URL+"/api/v1/admin/users/1", nil, adminToken)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestProgressRoundTrip(t *testing.T) {
	server := newTestServer(t)

	register := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/register", map[string]string{
		"username": "ivan", "password": "secret",
	}, "")
	require.Equal(t, http.StatusCreated, register.StatusCode)
	register.Body.Close()
	token := login(t, server, "ivan", "secret")

	set := doJSON(t, http.MethodPost, server.URL+"/api/v1/progress", map[string]any{
		"lesson_id": 3, "is_completed": true,
	}, token)
	require.Equal(t, http.StatusOK, set.StatusCode)
	set.Body.Close()

	// Same lesson again flips the flag instead of adding a row.
	unset := doJSON(t, http.MethodPost, server.URL+"/api/v1/progress", map[string]any{
		"lesson_id": 3, "is_completed": false,
	}, token)
	require.Equal(t, http.StatusOK, unset.StatusCode)
	unset.Body.Close()

	get := doJSON(t, http.MethodGet, server.URL+"/api/v1/progress", nil, token)
	require.Equal(t, http.StatusOK, get.StatusCode)

	var list struct {
		Progress []struct {
			LessonID    int  `json:"lesson_id"`
			IsCompleted bool `json:"is_completed"`
		} `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(decodeBody(t, get).Data, &list))
	require.Len(t, list.Progress, 1)
	require.Equal(t, 3, list.Progress[0].LessonID)
	require.False(t, list.Progress[0].IsCompleted)
}

func TestVideoCatalog(t *testing.T) {
	server := newTestServer(t)
	adminToken := login(t, server, "admin", "admin123")

	create := doJSON(t, http.MethodPost, server.URL+"/api/v1/admin/videos", map[string]any{
		"title":       "Watercolor basics",
		"artist":      "E. Volkova",
		"type":        "lesson",
		"youtube_url": "https://youtube.com/watch?v=abc123",
		"order":       1,
	}, adminToken)
	require.Equal(t, http.StatusCreated, create.StatusCode)
	create.Body.Close()

	// The catalog itself is public.
	list, err := http.Get(server.URL + "/api/v1/videos")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, list.StatusCode)

	var videos struct {
		Videos []struct {
			Title string `json:"title"`
			Kind  string `json:"type"`
		} `json:"videos"`
	}
	require.NoError(t, json.Unmarshal(decodeBody(t, list).Data, &videos))
	require.Len(t, videos.Videos, 1)
	require.Equal(t, "lesson", videos.Videos[0].Kind)
}
