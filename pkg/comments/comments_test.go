package comments

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/campuslink/campus/cli/internal/fakeapi"
	"github.com/campuslink/campus/cli/pkg/api"
	"github.com/campuslink/campus/cli/pkg/client"
	"github.com/campuslink/campus/cli/pkg/content"
	apperrors "github.com/campuslink/campus/cli/pkg/errors"
)

type ThreadTestSuite struct {
	suite.Suite
	srv    *fakeapi.Server
	remote *api.Client
	ctx    context.Context
}

func (s *ThreadTestSuite) SetupTest() {
	s.srv = fakeapi.New(s.T())
	rc := client.New(client.Options{BaseURL: s.srv.BaseURL(), Token: "tok", Transport: http.DefaultTransport})
	s.remote = api.New(rc).SetRetryDelay(time.Millisecond)
	s.ctx = context.Background()
}

func TestThreadTestSuite(t *testing.T) {
	suite.Run(t, new(ThreadTestSuite))
}

func (s *ThreadTestSuite) thread(kind content.Kind, id string) *Thread {
	return NewThread(s.remote, content.Key{ID: id, Kind: kind}, nil)
}

func (s *ThreadTestSuite) TestBlankTextIssuesNoCall() {
	th := s.thread(content.KindEvent, "e1")

	for _, text := range []string{"", "   ", "\n\t"} {
		err := th.Add(s.ctx, text)
		s.True(apperrors.Is(err, apperrors.KindValidation))
	}
	s.Equal(0, s.srv.TotalCalls())
	s.Empty(th.Comments())
	s.Error(th.LastError())
}

func (s *ThreadTestSuite) TestAddReplacesListWithServerList() {
	s.srv.SetComments("academic", "a1", []content.Comment{{ID: "c0", AuthorRef: "u2", Text: "first"}})
	th := s.thread(content.KindAcademic, "a1")
	th.SetDraft("hello")

	s.Require().NoError(th.Submit(s.ctx))

	s.Equal(s.srv.Comments("academic", "a1"), th.Comments())
	s.Len(th.Comments(), 2)
	s.Equal("", th.Draft())
	s.NoError(th.LastError())
	s.Equal(1, s.srv.Calls(http.MethodPost, "/academic/:id/comments"))
}

func (s *ThreadTestSuite) TestRoutesByOwningKind() {
	for kind, resource := range map[content.Kind]string{
		content.KindEvent:    "events",
		content.KindAcademic: "academic",
		content.KindReport:   "report_types",
	} {
		th := s.thread(kind, "x1")
		s.Require().NoError(th.Add(s.ctx, "hi"))
		s.Equal(1, s.srv.Calls(http.MethodPost, "/"+resource+"/:id/comments"), resource)
	}
}

func (s *ThreadTestSuite) TestEditAndRemove() {
	s.srv.SetComments("report_types", "r1", []content.Comment{
		{ID: "c1", Text: "seen near library"},
		{ID: "c2", Text: "still there"},
	})
	th := s.thread(content.KindReport, "r1")

	s.Require().NoError(th.Edit(s.ctx, "c1", "seen near the main library"))
	s.Equal("seen near the main library", th.Comments()[0].Text)

	s.Require().NoError(th.Remove(s.ctx, "c2"))
	s.Len(th.Comments(), 1)
	s.Equal(s.srv.Comments("report_types", "r1"), th.Comments())
}

func (s *ThreadTestSuite) TestFailureKeepsListAndRecordsInlineError() {
	s.srv.SetComments("events", "e1", []content.Comment{{ID: "c1", Text: "see you there"}})
	th := ForItem(s.remote, content.EventPost{Base: content.Base{ID: "e1", Comments: []content.Comment{{ID: "c1", Text: "see you there"}}}}, nil)
	th.SetDraft("draft text")
	s.srv.FailNext(http.MethodPost, "/events/:id/comments", http.StatusInternalServerError, "Comments are closed")

	err := th.Add(s.ctx, "draft text")
	s.Require().Error(err)
	s.Equal("Comments are closed", apperrors.UserMessage(th.LastError()))
	s.Len(th.Comments(), 1)
	s.Equal("draft text", th.Draft())

	s.Require().NoError(th.Add(s.ctx, "draft text"))
	s.NoError(th.LastError())
}

func (s *ThreadTestSuite) TestEditUnknownCommentFails() {
	th := s.thread(content.KindEvent, "e1")
	err := th.Edit(s.ctx, "missing", "text")
	s.True(apperrors.Is(err, apperrors.KindServerRejected))
	s.Equal("Comment not found", apperrors.UserMessage(err))
}

func TestOnChangeReceivesServerList(t *testing.T) {
	srv := fakeapi.New(t)
	rc := client.New(client.Options{BaseURL: srv.BaseURL(), Transport: http.DefaultTransport})
	th := NewThread(api.New(rc), content.Key{ID: "e1", Kind: content.KindEvent}, nil)

	var got []content.Comment
	th.OnChange(func(list []content.Comment) { got = list })

	require.NoError(t, th.Add(context.Background(), "on my way"))
	require.Len(t, got, 1)
	assert.Equal(t, "on my way", got[0].Text)
}
