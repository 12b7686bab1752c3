package blogservice

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/bloglist/internal/common"
)

const (
	ownerID = "64b7f0c2e1a4b3d2c1f0e9d8"
	otherID = "64b7f0c2e1a4b3d2c1f0e9d9"
	blogID  = "64b7f0c2e1a4b3d2c1f0e9da"
)

func intptr(i int) *int {
	return &i
}

func strptr(s string) *string {
	return &s
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(m Model, mb common.MessageProducer) (*BlogService, *passTx) {
	tx := &passTx{}
	return NewBlogService(m, tx, mb, testLogger()), tx
}

func assertClientError(t *testing.T, err error, status int, message string) {
	t.Helper()

	var ce *common.ClientError
	require.True(t, errors.As(err, &ce), "expected a client error, got %v", err)
	assert.Equal(t, status, ce.Status)
	assert.Equal(t, message, ce.Message)
}

func TestCreateBlog(t *testing.T) {
	owner := Owner{ID: ownerID, Username: "root"}

	testCases := []struct {
		name        string
		input       *CreateBlogInput
		wantLikes   int
		insertErr   error
		addErr      error
		callsInsert bool
		callsAdd    bool
		expectedErr error
	}{
		{
			name:        "valid blog",
			input:       &CreateBlogInput{Title: "T", Author: "A", URL: "U", Likes: intptr(5)},
			wantLikes:   5,
			callsInsert: true,
			callsAdd:    true,
		},
		{
			name:        "likes default to zero",
			input:       &CreateBlogInput{Title: "T", Author: "A", URL: "U"},
			wantLikes:   0,
			callsInsert: true,
			callsAdd:    true,
		},
		{
			name:        "missing title and url",
			input:       &CreateBlogInput{Author: "A"},
			expectedErr: common.ValidationError{Errors: map[string]string{"title": "must be provided", "url": "must be provided"}},
		},
		{
			name:        "negative likes",
			input:       &CreateBlogInput{Title: "T", URL: "U", Likes: intptr(-1)},
			expectedErr: common.ValidationError{Errors: map[string]string{"likes": "must not be negative"}},
		},
		{
			name:        "insert fails",
			input:       &CreateBlogInput{Title: "T", URL: "U"},
			insertErr:   errors.New("write conflict"),
			callsInsert: true,
			expectedErr: errors.New("write conflict"),
		},
		{
			name:        "owner update fails",
			input:       &CreateBlogInput{Title: "T", URL: "U"},
			addErr:      ErrUserForeignKey,
			callsInsert: true,
			callsAdd:    true,
			expectedErr: ErrUserForeignKey,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := new(mockModel)
			if tc.callsInsert {
				m.On("insert", mock.Anything, mock.AnythingOfType("*blogservice.Blog")).
					Run(func(args mock.Arguments) {
						args.Get(1).(*Blog).ID = blogID
					}).
					Return(tc.insertErr)
			}
			if tc.callsAdd {
				m.On("addToUser", mock.Anything, ownerID, blogID).Return(tc.addErr)
			}

			s, tx := newTestService(m, nil)

			blog, err := s.CreateBlog(context.Background(), tc.input, owner)
			assert.Equal(t, tc.expectedErr, err)

			if tc.expectedErr == nil {
				require.NotNil(t, blog)
				assert.Equal(t, &Blog{ID: blogID, Title: "T", Author: "A", URL: "U", Likes: tc.wantLikes, User: ownerID}, blog)
				assert.Equal(t, 1, tx.calls)
			}

			m.AssertExpectations(t)
		})
	}
}

// With a unit of work that applies writes one by one, a failing owner update
// leaves the inserted blog behind while the caller still sees the error.
func TestCreateBlogKeepsMarkup(t *testing.T) {
	testCases := []struct {
		name   string
		title  string
		author string
	}{
		{name: "script tag", title: "<script>alert('Hello, World!');</script>", author: "A"},
		{name: "mixed case with attributes", title: "Type wars", author: `Robert<SCRIPT SRC="evil.js"></SCRIPT>`},
		{name: "plain text", title: "React patterns", author: "Michael Chan"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := new(mockModel)
			m.On("insert", mock.Anything, mock.MatchedBy(func(b *Blog) bool {
				return b.Title == tc.title && b.Author == tc.author
			})).Run(func(args mock.Arguments) {
				args.Get(1).(*Blog).ID = blogID
			}).Return(nil)
			m.On("addToUser", mock.Anything, ownerID, blogID).Return(nil)

			s, _ := newTestService(m, nil)

			blog, err := s.CreateBlog(context.Background(), &CreateBlogInput{Title: tc.title, Author: tc.author, URL: "U"}, Owner{ID: ownerID})
			require.NoError(t, err)
			assert.Equal(t, tc.title, blog.Title)
			assert.Equal(t, tc.author, blog.Author)
			m.AssertExpectations(t)
		})
	}
}

func TestCreateBlogPartialFailure(t *testing.T) {
	m := new(mockModel)
	inserted := false
	m.On("insert", mock.Anything, mock.Anything).Run(func(mock.Arguments) { inserted = true }).Return(nil)
	m.On("addToUser", mock.Anything, ownerID, mock.Anything).Return(errors.New("connection reset"))

	s, _ := newTestService(m, nil)

	_, err := s.CreateBlog(context.Background(), &CreateBlogInput{Title: "T", URL: "U"}, Owner{ID: ownerID})
	assert.EqualError(t, err, "connection reset")
	assert.True(t, inserted)
}

func TestCreateBlogPublishesEvent(t *testing.T) {
	testCases := []struct {
		name       string
		publishErr error
	}{
		{name: "published"},
		{name: "publish failure is not fatal", publishErr: errors.New("channel closed")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := new(mockModel)
			m.On("insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
				args.Get(1).(*Blog).ID = blogID
			}).Return(nil)
			m.On("addToUser", mock.Anything, ownerID, blogID).Return(nil)

			mb := new(mockProducer)
			mb.On("Publish", mock.Anything, mock.Anything, common.BlogCreatedKey, common.BlogExchange).Return(tc.publishErr)

			s, _ := newTestService(m, mb)

			blog, err := s.CreateBlog(context.Background(), &CreateBlogInput{Title: "T", Author: "A", URL: "U"}, Owner{ID: ownerID, Username: "root"})
			require.NoError(t, err)
			assert.Equal(t, blogID, blog.ID)

			var msg common.BlogCreatedMessage
			body := mb.Calls[0].Arguments.Get(1).([]byte)
			require.NoError(t, json.Unmarshal(body, &msg))
			assert.Equal(t, common.BlogCreatedMessage{ID: blogID, Title: "T", Author: "A", URL: "U", Username: "root"}, msg)
		})
	}
}

func TestDeleteBlog(t *testing.T) {
	owned := &Blog{ID: blogID, Title: "T", URL: "U", User: ownerID}

	testCases := []struct {
		name       string
		id         string
		callerID   string
		found      *Blog
		getErr     error
		deletes    bool
		removeErr  error
		wantStatus int
		wantMsg    string
	}{
		{
			name:     "owner deletes",
			id:       blogID,
			callerID: ownerID,
			found:    owned,
			deletes:  true,
		},
		{
			name:      "owner already gone",
			id:        blogID,
			callerID:  ownerID,
			found:     owned,
			deletes:   true,
			removeErr: ErrUserForeignKey,
		},
		{
			name:       "not the owner",
			id:         blogID,
			callerID:   otherID,
			found:      owned,
			wantStatus: http.StatusForbidden,
			wantMsg:    "User is forbidden to delete post",
		},
		{
			name:       "missing blog",
			id:         "no-such-id",
			callerID:   ownerID,
			getErr:     common.ErrRecordNotFound,
			wantStatus: http.StatusNotFound,
			wantMsg:    "Record with no-such-id does not exist",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := new(mockModel)
			m.On("get", mock.Anything, tc.id).Return(tc.found, tc.getErr)
			if tc.deletes {
				m.On("delete", mock.Anything, blogID).Return(nil)
				m.On("removeFromUser", mock.Anything, ownerID, blogID).Return(tc.removeErr)
			}

			s, _ := newTestService(m, nil)

			err := s.DeleteBlog(context.Background(), tc.id, tc.callerID)
			if tc.wantStatus == 0 {
				assert.NoError(t, err)
			} else {
				assertClientError(t, err, tc.wantStatus, tc.wantMsg)
				m.AssertNotCalled(t, "delete", mock.Anything, mock.Anything)
			}

			m.AssertExpectations(t)
		})
	}
}

func TestUpdateBlogMissingInfo(t *testing.T) {
	full := func() *UpdateBlogInput {
		return &UpdateBlogInput{Title: strptr("t2"), Author: strptr("a2"), URL: strptr("u2"), Likes: intptr(9)}
	}

	testCases := []struct {
		name  string
		input func() *UpdateBlogInput
	}{
		{name: "no title", input: func() *UpdateBlogInput { in := full(); in.Title = nil; return in }},
		{name: "no author", input: func() *UpdateBlogInput { in := full(); in.Author = nil; return in }},
		{name: "no url", input: func() *UpdateBlogInput { in := full(); in.URL = nil; return in }},
		{name: "no likes", input: func() *UpdateBlogInput { in := full(); in.Likes = nil; return in }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := new(mockModel)
			s, _ := newTestService(m, nil)

			_, err := s.UpdateBlog(context.Background(), blogID, tc.input())
			assertClientError(t, err, http.StatusBadRequest, "Info is missing")

			_, err = s.UpdateOwnBlog(context.Background(), blogID, tc.input(), ownerID)
			assertClientError(t, err, http.StatusBadRequest, "Info is missing")

			assert.Empty(t, m.Calls)
		})
	}
}

func TestUpdateBlog(t *testing.T) {
	input := &UpdateBlogInput{Title: strptr("t2"), Author: strptr("a2"), URL: strptr("u2"), Likes: intptr(0)}

	t.Run("replaces fields", func(t *testing.T) {
		updated := &Blog{ID: blogID, Title: "t2", Author: "a2", URL: "u2", Likes: 0, User: ownerID}

		m := new(mockModel)
		m.On("update", mock.Anything, blogID, "t2", "a2", "u2", 0).Return(updated, nil)

		s, _ := newTestService(m, nil)

		blog, err := s.UpdateBlog(context.Background(), blogID, input)
		assert.NoError(t, err)
		assert.Equal(t, updated, blog)
	})

	t.Run("markup is stored as given", func(t *testing.T) {
		title, author := "<script>x</script>", `Type wars<SCRIPT SRC="a.js"></SCRIPT>`
		stored := &Blog{ID: blogID, Title: title, Author: author, URL: "u2", Likes: 9, User: ownerID}

		m := new(mockModel)
		m.On("update", mock.Anything, blogID, title, author, "u2", 9).Return(stored, nil)

		s, _ := newTestService(m, nil)

		blog, err := s.UpdateBlog(context.Background(), blogID, &UpdateBlogInput{Title: &title, Author: &author, URL: strptr("u2"), Likes: intptr(9)})
		require.NoError(t, err)
		assert.Equal(t, title, blog.Title)
		assert.Equal(t, author, blog.Author)
		m.AssertExpectations(t)
	})

	t.Run("negative likes", func(t *testing.T) {
		m := new(mockModel)
		s, _ := newTestService(m, nil)

		_, err := s.UpdateBlog(context.Background(), blogID, &UpdateBlogInput{Title: strptr("t2"), Author: strptr("a2"), URL: strptr("u2"), Likes: intptr(-1)})
		assert.Equal(t, common.ValidationError{Errors: map[string]string{"likes": "must not be negative"}}, err)
		assert.Empty(t, m.Calls)
	})

	t.Run("missing blog", func(t *testing.T) {
		m := new(mockModel)
		m.On("update", mock.Anything, "abc", "t2", "a2", "u2", 0).Return(nil, common.ErrRecordNotFound)

		s, _ := newTestService(m, nil)

		_, err := s.UpdateBlog(context.Background(), "abc", input)
		assertClientError(t, err, http.StatusNotFound, "Record with abc does not exist")
	})

	t.Run("owner check", func(t *testing.T) {
		m := new(mockModel)
		m.On("get", mock.Anything, blogID).Return(&Blog{ID: blogID, User: ownerID}, nil)

		s, _ := newTestService(m, nil)

		_, err := s.UpdateOwnBlog(context.Background(), blogID, input, otherID)
		assertClientError(t, err, http.StatusForbidden, "User is forbidden to update post")
		m.AssertNotCalled(t, "update", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetBlogs(t *testing.T) {
	blogs := []*BlogWithUser{
		{ID: blogID, Title: "T", URL: "U", User: &UserSummary{ID: ownerID, Username: "root", Name: "Superuser"}},
	}

	m := new(mockModel)
	m.On("getAll", mock.Anything).Return(blogs, nil)

	s, _ := newTestService(m, nil)

	got, err := s.GetBlogs(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, blogs, got)
}
