package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/calibre-xmnote/internal/calibre/calibretest"
	"github.com/mrlokans/calibre-xmnote/internal/xmnote"
)

type cliEnv struct {
	lib    *calibretest.Library
	dune   int64
	bare   int64
	mu     sync.Mutex
	docs   []xmnote.Document
	device *httptest.Server
}

func (e *cliEnv) received() []xmnote.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]xmnote.Document(nil), e.docs...)
}

func setupCLI(t *testing.T) *cliEnv {
	t.Helper()
	env := &cliEnv{lib: calibretest.NewLibrary(t)}

	env.dune = env.lib.AddBook(calibretest.Book{
		Title:   "Dune",
		Authors: []string{"Frank Herbert"},
		PubDate: "1965-08-01 00:00:00+00:00",
		Formats: []calibretest.Format{{Format: "EPUB", Name: "Dune"}},
	})
	env.lib.AddHighlight(env.dune, calibretest.Highlight{Text: "Fear is the mind-killer.", Time: "2023-05-01T10:20:30Z"})
	env.bare = env.lib.AddBook(calibretest.Book{
		Title:   "Bare",
		PubDate: "2001-01-01 00:00:00+00:00",
		Formats: []calibretest.Format{{Format: "EPUB", Name: "Bare"}, {Format: "PDF", Name: "Bare"}},
	})

	env.device = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var doc xmnote.Document
		if err := json.NewDecoder(r.Body).Decode(&doc); err == nil {
			env.mu.Lock()
			env.docs = append(env.docs, doc)
			env.mu.Unlock()
		}
		w.Write([]byte(`{"code":200}`))
	}))
	t.Cleanup(env.device.Close)

	u, err := url.Parse(env.device.URL)
	require.NoError(t, err)

	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "none.env"))
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "state.db"))
	t.Setenv("CALIBRE_LIBRARY_PATH", env.lib.Path)
	t.Setenv("SERVER_IP_ADDR", u.Hostname())
	t.Setenv("SERVER_PORT", u.Port())
	t.Setenv("DEVICE_PORT_ENABLED", "true")
	t.Setenv("AUDIT_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")
	return env
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand("1.2.3", "abc123")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "calibre-xmnote 1.2.3 (abc123)\n", out)
}

func TestHelpXMnoteCommand(t *testing.T) {
	out, err := run(t, "help-xmnote")
	require.NoError(t, err)
	assert.Contains(t, out, "帮助")
	assert.Contains(t, out, "v3.5.6")
}

func TestExportCommand(t *testing.T) {
	env := setupCLI(t)

	out, err := run(t, "export", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "已选书籍:\n• Dune\n")
	assert.Contains(t, out, "✅ Sent 1 book(s)")

	docs := env.received()
	require.Len(t, docs, 1)
	assert.Equal(t, "Dune", docs[0].Title)
	require.Len(t, docs[0].Entries, 1)
	assert.Equal(t, int64(1682936430), docs[0].Entries[0].Time)

	t.Run("history is kept between runs", func(t *testing.T) {
		_, err := run(t, "export", "2")
		require.NoError(t, err)
		assert.Len(t, env.received(), 2)
	})
}

func TestExportCommand_Errors(t *testing.T) {
	env := setupCLI(t)

	t.Run("invalid id", func(t *testing.T) {
		_, err := run(t, "export", "abc")
		assert.ErrorContains(t, err, `invalid book id "abc"`)
	})

	t.Run("invalid device ip sends nothing", func(t *testing.T) {
		t.Setenv("SERVER_IP_ADDR", "192.168.1")
		out, err := run(t, "export", "1")
		require.Error(t, err)
		assert.Contains(t, out, "IP地址无效")
		assert.Empty(t, env.received())
	})

	t.Run("unreachable device", func(t *testing.T) {
		closed := httptest.NewServer(http.NotFoundHandler())
		u, _ := url.Parse(closed.URL)
		closed.Close()
		t.Setenv("SERVER_PORT", u.Port())

		out, err := run(t, "export", "1")
		require.Error(t, err)
		assert.True(t, IsReported(err))

		var netErr *xmnote.NetworkError
		assert.True(t, errors.As(err, &netErr))

		assert.Equal(t, 1, strings.Count(out, "请求发送失败"))
		assert.Contains(t, out, "目标设备未进入API导入界面")
		assert.NotContains(t, out, "Error:")
	})

	t.Run("no library configured", func(t *testing.T) {
		t.Setenv("CALIBRE_LIBRARY_PATH", "")
		_, err := run(t, "export", "1")
		assert.ErrorContains(t, err, "calibre library is not configured")
		assert.False(t, IsReported(err))
	})
}

func TestConfigCommands(t *testing.T) {
	setupCLI(t)
	t.Setenv("SERVER_IP_ADDR", "")
	t.Setenv("SERVER_PORT", "")

	out, err := run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "server_ip_addr: 192.168.0.1 (default)")

	out, err = run(t, "config", "set", "--ip", "10.1.2.3", "--port", "9000")
	require.NoError(t, err)
	assert.Contains(t, out, "✅ Settings saved")
	assert.Contains(t, out, "server_ip_addr: 10.1.2.3 (database)")
	assert.Contains(t, out, "server_port:    9000 (database)")

	out, err = run(t, "config", "set", "--ip", "300.1.2.3")
	require.Error(t, err)
	assert.True(t, IsReported(err))
	assert.Equal(t, 1, strings.Count(out, "IP地址无效"))

	out, err = run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "server_ip_addr: 10.1.2.3 (database)")

	out, err = run(t, "config", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "server_ip_addr: 192.168.0.1 (default)")
}

func TestLibraryCommands(t *testing.T) {
	env := setupCLI(t)

	t.Run("books", func(t *testing.T) {
		out, err := run(t, "books")
		require.NoError(t, err)
		assert.Contains(t, out, "Dune by Frank Herbert [EPUB]")
		assert.Contains(t, out, "Bare by  [EPUB, PDF]")
		assert.Contains(t, out, "📚 2 book(s)")
	})

	t.Run("summary", func(t *testing.T) {
		out, err := run(t, "summary", "2", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "已选书籍:\n• Bare\n• Dune\n")
	})

	t.Run("mark single format then export marked", func(t *testing.T) {
		out, err := run(t, "mark-single-format")
		require.NoError(t, err)
		assert.Contains(t, out, "Marked 1 book(s): 1")

		_, err = run(t, "export", "--marked")
		require.NoError(t, err)
		docs := env.received()
		require.NotEmpty(t, docs)
		assert.Equal(t, "Dune", docs[len(docs)-1].Title)
	})
}
