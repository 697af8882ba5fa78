package internal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

// MockHTTPClient is a mock implementation of http.Client for testing
type MockHTTPClient struct {
	DoFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.DoFunc(req)
}

func quietLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}

func TestHttpFetcher_Fetch(t *testing.T) {
	mockImageData := "this is mock image data"

	t.Run("successful retrieval", func(t *testing.T) {
		var seen *http.Request
		mockClient := &MockHTTPClient{
			DoFunc: func(req *http.Request) (*http.Response, error) {
				seen = req
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(mockImageData)),
					Header:     make(http.Header),
				}, nil
			},
		}

		f := &HttpFetcher{client: mockClient, logger: quietLogger()}

		reader, err := f.Fetch(context.Background(), "http://test-url/frame.png")
		assert.NoError(t, err)
		assert.NotNil(t, reader)
		assert.Equal(t, http.MethodGet, seen.Method)
		assert.Contains(t, seen.Header.Get("Accept"), "image/png")

		data, err := io.ReadAll(reader)
		assert.NoError(t, err)
		assert.Equal(t, mockImageData, string(data))
		assert.NoError(t, reader.Close())
	})

	t.Run("error status", func(t *testing.T) {
		mockClient := &MockHTTPClient{
			DoFunc: func(req *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusNotFound,
					Status:     "404 Not Found",
					Body:       io.NopCloser(bytes.NewBufferString("Not Found")),
					Header:     make(http.Header),
				}, nil
			},
		}

		f := &HttpFetcher{client: mockClient, logger: quietLogger()}

		reader, err := f.Fetch(context.Background(), "http://test-url/missing.png")
		assert.Error(t, err)
		assert.Nil(t, reader)
		assert.Equal(t, "http status response from http://test-url/missing.png: 404 Not Found", err.Error())
	})

	t.Run("transport error", func(t *testing.T) {
		boom := errors.New("connection refused")
		mockClient := &MockHTTPClient{
			DoFunc: func(req *http.Request) (*http.Response, error) {
				return nil, boom
			},
		}

		f := &HttpFetcher{client: mockClient, logger: quietLogger()}

		reader, err := f.Fetch(context.Background(), "http://test-url/frame.png")
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, reader)
	})
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("http://example.com/a.png"))
	assert.True(t, IsRemote("HTTPS://example.com/a.png"))
	assert.False(t, IsRemote("./a.png"))
	assert.False(t, IsRemote("/tmp/http/a.png"))
}

func TestMaskedEnviron(t *testing.T) {
	env := []string{
		"PATH=/usr/bin",
		"ANIME4K_SCALE=2",
		"ANIME4K_API_KEY=hunter2",
		"ANIME4K_EMPTY",
	}
	assert.Equal(t, []string{
		"ANIME4K_API_KEY: ********",
		"ANIME4K_EMPTY: ",
		"ANIME4K_SCALE: 2",
	}, maskedEnviron(env, "ANIME4K_"))
}
