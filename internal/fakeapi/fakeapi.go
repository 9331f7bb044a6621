// Package fakeapi is an in-memory campus API served over httptest for
// tests. It counts calls per route and can hold, fail or override any
// route.
package fakeapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/campus/cli/pkg/content"
)

// Base is the path prefix of every route
const Base = "/api"

// Partner is the wire shape of a chat partner
type Partner struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Avatar      string `json:"avatar"`
	UnreadCount int    `json:"unreadCount"`
}

// Message is the wire shape of a direct message
type Message struct {
	ID        string    `json:"_id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type failure struct {
	status  int
	message string
	once    bool
}

// Server is the fake API
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	saved      map[string]bool
	witnessed  map[string]bool
	subscribed map[string]bool
	ownReports map[string]bool
	comments   map[string][]content.Comment
	partners   []Partner
	messages   map[string][]Message
	items      map[content.Kind][]any
	nextID     int

	calls     map[string]int
	failures  map[string][]failure
	holds     map[string]chan struct{}
	overrides map[string]gin.HandlerFunc
	lastAuth  string
}

// New starts a fake API; it is closed when the test ends.
func New(t interface{ Cleanup(func()) }) *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		saved:      map[string]bool{},
		witnessed:  map[string]bool{},
		subscribed: map[string]bool{},
		ownReports: map[string]bool{},
		comments:   map[string][]content.Comment{},
		messages:   map[string][]Message{},
		items:      map[content.Kind][]any{},
		calls:      map[string]int{},
		failures:   map[string][]failure{},
		holds:      map[string]chan struct{}{},
		overrides:  map[string]gin.HandlerFunc{},
	}

	router := gin.New()
	router.Use(s.intercept)
	s.routes(router.Group(Base))

	s.Server = httptest.NewServer(router)
	t.Cleanup(s.Close)
	return s
}

// BaseURL returns the API base URL including the /api prefix
func (s *Server) BaseURL() string {
	return s.Server.URL + Base
}

func (s *Server) routes(api *gin.RouterGroup) {
	api.POST("/saved/toggle", s.toggleSave)
	api.GET("/saved/check/:type/:id", s.checkSave)

	api.POST("/report_types/:id/witnesses", s.submitWitness)
	api.GET("/report_types/:id/witnesses", s.checkWitness)
	api.GET("/report_types/:id/witness-list", s.witnessList)

	api.PUT("/events/toggle_notify/:id", s.toggleNotify)
	api.GET("/events/get_notify_status/:id", s.checkNotify)

	for _, res := range []string{"events", "academic", "report_types"} {
		res := res
		api.GET("/"+res, s.list(res))
		api.POST("/"+res+"/:id/comments", s.createComment(res))
		api.PUT("/"+res+"/:id/comments/:commentId", s.editComment(res))
		api.DELETE("/"+res+"/:id/comments/:commentId", s.deleteComment(res))
	}

	api.GET("/message/partners/list", s.listPartners)
	api.GET("/message/:partnerId", s.conversation)
	api.POST("/message/send/:partnerId", s.send)
	api.PUT("/message/markAsRead/:partnerId", s.markRead)
}

func routeKey(method, pattern string) string {
	return method + " " + Base + pattern
}

// intercept counts calls, then applies holds, failures and overrides
func (s *Server) intercept(c *gin.Context) {
	key := c.Request.Method + " " + c.FullPath()

	s.mu.Lock()
	s.calls[key]++
	s.lastAuth = c.GetHeader("Authorization")
	hold := s.holds[key]
	s.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}
	}

	s.mu.Lock()
	var f *failure
	if queue := s.failures[key]; len(queue) > 0 {
		head := queue[0]
		f = &head
		if head.once {
			s.failures[key] = queue[1:]
		}
	}
	override := s.overrides[key]
	s.mu.Unlock()

	if f != nil {
		if f.message == "" {
			c.AbortWithStatus(f.status)
		} else {
			c.AbortWithStatusJSON(f.status, gin.H{"message": f.message})
		}
		return
	}
	if override != nil {
		override(c)
		c.Abort()
		return
	}
	c.Next()
}

// Calls returns how often method+pattern was hit, e.g.
// Calls("POST", "/saved/toggle").
func (s *Server) Calls(method, pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[routeKey(method, pattern)]
}

// TotalCalls returns the number of requests served
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.calls {
		n += v
	}
	return n
}

// LastAuthorization returns the Authorization header of the last call
func (s *Server) LastAuthorization() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAuth
}

// FailNext makes the next call to the route fail. An empty message
// yields a body-less error response.
func (s *Server) FailNext(method, pattern string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := routeKey(method, pattern)
	s.failures[key] = append(s.failures[key], failure{status: status, message: message, once: true})
}

// FailAlways makes every call to the route fail
func (s *Server) FailAlways(method, pattern string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[routeKey(method, pattern)] = []failure{{status: status, message: message}}
}

// Hold blocks calls to the route until the returned release is called
func (s *Server) Hold(method, pattern string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.holds[routeKey(method, pattern)] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.holds, routeKey(method, pattern))
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Override replaces the handler of a route
func (s *Server) Override(method, pattern string, h gin.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[routeKey(method, pattern)] = h
}

// SetSaved seeds the saved flag of an item
func (s *Server) SetSaved(saveType, id string, saved bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[saveType+"/"+id] = saved
}

// Saved reports the server-side saved flag
func (s *Server) Saved(saveType, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved[saveType+"/"+id]
}

// SetOwnReport marks a report as authored by the viewer
func (s *Server) SetOwnReport(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ownReports[id] = true
}

// SetWitnessed seeds the witness flag of a report
func (s *Server) SetWitnessed(id string, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.witnessed[id] = v
}

// SetSubscribed seeds the reminder subscription of an event
func (s *Server) SetSubscribed(id string, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribed[id] = v
}

// SetComments seeds the comments of an item
func (s *Server) SetComments(resource, id string, comments []content.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[resource+"/"+id] = append([]content.Comment(nil), comments...)
}

// Comments returns the server-side comments of an item
func (s *Server) Comments(resource, id string) []content.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]content.Comment(nil), s.comments[resource+"/"+id]...)
}

// SetPartners replaces the inbox
func (s *Server) SetPartners(partners ...Partner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partners = append([]Partner(nil), partners...)
}

// SetMessages replaces a conversation
func (s *Server) SetMessages(partnerID string, msgs ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[partnerID] = append([]Message(nil), msgs...)
}

// AddItems appends feed items of one kind
func (s *Server) AddItems(kind content.Kind, items ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[kind] = append(s.items[kind], items...)
}

// SetItems replaces the feed items of one kind
func (s *Server) SetItems(kind content.Kind, items ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[kind] = append([]any(nil), items...)
}

func (s *Server) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s%d", prefix, s.nextID)
}

func (s *Server) toggleSave(c *gin.Context) {
	var body struct {
		PostID string `json:"postId"`
		Type   string `json:"type"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.PostID == "" || body.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "postId and type are required"})
		return
	}

	s.mu.Lock()
	key := body.Type + "/" + body.PostID
	s.saved[key] = !s.saved[key]
	saved := s.saved[key]
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"isSaved": saved})
}

func (s *Server) checkSave(c *gin.Context) {
	s.mu.Lock()
	saved := s.saved[c.Param("type")+"/"+c.Param("id")]
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"isSaved": saved})
}

func (s *Server) submitWitness(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ownReports[id] {
		c.JSON(http.StatusBadRequest, gin.H{"message": "You cannot witness your own report."})
		return
	}
	if s.witnessed[id] {
		c.JSON(http.StatusBadRequest, gin.H{"message": "You have already witnessed this report."})
		return
	}
	s.witnessed[id] = true
	c.JSON(http.StatusCreated, gin.H{"message": "Witness added", "witnessCount": 1})
}

func (s *Server) checkWitness(c *gin.Context) {
	s.mu.Lock()
	v := s.witnessed[c.Param("id")]
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"isWitness": v})
}

func (s *Server) witnessList(c *gin.Context) {
	s.mu.Lock()
	v := s.witnessed[c.Param("id")]
	s.mu.Unlock()

	witnesses := []gin.H{}
	if v {
		witnesses = append(witnesses, gin.H{"_id": "viewer", "name": "You"})
	}
	c.JSON(http.StatusOK, gin.H{"witnesses": witnesses})
}

func (s *Server) toggleNotify(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	s.subscribed[id] = !s.subscribed[id]
	v := s.subscribed[id]
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"isSubscribed": v})
}

func (s *Server) checkNotify(c *gin.Context) {
	s.mu.Lock()
	v := s.subscribed[c.Param("id")]
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"isSubscribed": v})
}

func (s *Server) list(res string) gin.HandlerFunc {
	kind := map[string]content.Kind{
		"events":       content.KindEvent,
		"academic":     content.KindAcademic,
		"report_types": content.KindReport,
	}[res]

	return func(c *gin.Context) {
		s.mu.Lock()
		items := append([]any{}, s.items[kind]...)
		s.mu.Unlock()

		// Events come back bare, the others in an envelope
		if kind == content.KindEvent {
			c.JSON(http.StatusOK, items)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": items})
	}
}

func (s *Server) createComment(res string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Text string `json:"text"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Text) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Comment text is required"})
			return
		}

		s.mu.Lock()
		key := res + "/" + c.Param("id")
		s.comments[key] = append(s.comments[key], content.Comment{
			ID:        s.id("c"),
			AuthorRef: "viewer",
			Text:      body.Text,
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		})
		list := append([]content.Comment{}, s.comments[key]...)
		s.mu.Unlock()

		c.JSON(http.StatusCreated, gin.H{"comments": list})
	}
}

func (s *Server) editComment(res string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Text string `json:"text"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Text) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Comment text is required"})
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		key := res + "/" + c.Param("id")
		for i, cm := range s.comments[key] {
			if cm.ID == c.Param("commentId") {
				s.comments[key][i].Text = body.Text
				c.JSON(http.StatusOK, gin.H{"comments": append([]content.Comment{}, s.comments[key]...)})
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"message": "Comment not found"})
	}
}

func (s *Server) deleteComment(res string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		defer s.mu.Unlock()
		key := res + "/" + c.Param("id")
		list := s.comments[key]
		for i, cm := range list {
			if cm.ID == c.Param("commentId") {
				s.comments[key] = append(list[:i:i], list[i+1:]...)
				c.JSON(http.StatusOK, gin.H{"comments": append([]content.Comment{}, s.comments[key]...)})
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"message": "Comment not found"})
	}
}

func (s *Server) listPartners(c *gin.Context) {
	s.mu.Lock()
	partners := append([]Partner{}, s.partners...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, partners)
}

func (s *Server) conversation(c *gin.Context) {
	s.mu.Lock()
	msgs := append([]Message{}, s.messages[c.Param("partnerId")]...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (s *Server) send(c *gin.Context) {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Message text is required"})
		return
	}

	s.mu.Lock()
	partnerID := c.Param("partnerId")
	msg := Message{ID: s.id("m"), Sender: "viewer", Text: body.Text, CreatedAt: time.Now().UTC().Truncate(time.Second)}
	s.messages[partnerID] = append(s.messages[partnerID], msg)
	s.mu.Unlock()

	c.JSON(http.StatusCreated, msg)
}

func (s *Server) markRead(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.partners {
		if s.partners[i].ID == c.Param("partnerId") {
			s.partners[i].UnreadCount = 0
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Messages marked as read"})
}
