package server

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexPagination(t *testing.T) {
	env := newTestEnv(t)
	author, _ := env.createUser(t, "prolific")
	for i := 0; i < 13; i++ {
		env.createPost(t, author, fmt.Sprintf("entry %d", i))
	}

	t.Run("first page holds ten posts", func(t *testing.T) {
		body := decodeBody(t, env.get(t, "/", ""))
		assert.Len(t, body["posts"], 10)
		assert.EqualValues(t, 1, body["page"])
		assert.EqualValues(t, 2, body["num_pages"])
		assert.EqualValues(t, 13, body["count"])
	})

	t.Run("second page holds the rest", func(t *testing.T) {
		body := decodeBody(t, env.get(t, "/?page=2", ""))
		assert.Len(t, body["posts"], 3)
		assert.EqualValues(t, 2, body["page"])
	})

	t.Run("out of range page clamps to last", func(t *testing.T) {
		body := decodeBody(t, env.get(t, "/?page=3", ""))
		assert.Len(t, body["posts"], 3)
		assert.EqualValues(t, 2, body["page"])
	})
}

func TestIndexNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	author, _ := env.createUser(t, "writer")
	env.createPost(t, author, "older")
	later := env.createPost(t, author, "newer")
	require.NoError(t, env.db.Model(later).
		Update("created_at", time.Now().Add(time.Minute)).Error)

	body := decodeBody(t, env.get(t, "/", ""))
	posts := body["posts"].([]any)
	require.Len(t, posts, 2)
	first := posts[0].(map[string]any)
	assert.Equal(t, "newer", first["text"])
}

func TestIndexPageCache(t *testing.T) {
	env := newTestEnv(t)
	author, _ := env.createUser(t, "writer")
	env.createPost(t, author, "first")

	before := readBody(t, env.get(t, "/", ""))

	// A write inside the cache window stays invisible.
	env.createPost(t, author, "second")
	cached := readBody(t, env.get(t, "/", ""))
	assert.Equal(t, before, cached, "cached reads must replay identical bytes")

	// Once the TTL passes, the new post shows up.
	env.mr.FastForward(21 * time.Second)
	after := decodeBody(t, env.get(t, "/", ""))
	assert.EqualValues(t, 2, after["count"])
}

func TestIndexPageCacheExplicitInvalidate(t *testing.T) {
	env := newTestEnv(t)
	author, _ := env.createUser(t, "writer")
	env.createPost(t, author, "first")

	_ = readBody(t, env.get(t, "/", ""))
	env.createPost(t, author, "second")

	env.srv.pageCache.Invalidate(t.Context(), "/")

	after := decodeBody(t, env.get(t, "/", ""))
	assert.EqualValues(t, 2, after["count"])
}

func TestIndexPageCacheKeyedByQuery(t *testing.T) {
	env := newTestEnv(t)
	author, _ := env.createUser(t, "prolific")
	for i := 0; i < 13; i++ {
		env.createPost(t, author, fmt.Sprintf("entry %d", i))
	}

	// Each URI caches independently; page 2 is not served page 1's bytes.
	page1 := decodeBody(t, env.get(t, "/", ""))
	page2 := decodeBody(t, env.get(t, "/?page=2", ""))
	assert.Len(t, page1["posts"], 10)
	assert.Len(t, page2["posts"], 3)
}

func TestFollowIndex(t *testing.T) {
	env := newTestEnv(t)
	_, readerToken := env.createUser(t, "reader")
	followed, _ := env.createUser(t, "followed")
	stranger, _ := env.createUser(t, "stranger")

	env.createPost(t, followed, "from followed")
	env.createPost(t, stranger, "from stranger")

	t.Run("requires auth", func(t *testing.T) {
		resp := env.get(t, "/follow/", "")
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/auth/login?next=/follow/", resp.Header.Get("Location"))
	})

	t.Run("empty when following nobody", func(t *testing.T) {
		body := decodeBody(t, env.get(t, "/follow/", readerToken))
		assert.Empty(t, body["posts"])
		assert.EqualValues(t, 0, body["count"])
	})

	t.Run("only followed authors appear", func(t *testing.T) {
		resp := env.postForm(t, "/followed/follow/", readerToken, url.Values{})
		require.Equal(t, http.StatusFound, resp.StatusCode)

		body := decodeBody(t, env.get(t, "/follow/", readerToken))
		posts := body["posts"].([]any)
		require.Len(t, posts, 1)
		post := posts[0].(map[string]any)
		assert.Equal(t, "from followed", post["text"])
	})
}
