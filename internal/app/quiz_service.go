package app

import (
	"context"
	"math/rand"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// QuizService contains the account, authoring, taking and dashboard use cases.
type QuizService struct {
	store   Store
	quizzes QuizLoader
	log     logrus.FieldLogger
	now     func() time.Time
	baseURL string

	// mu serializes read-modify-write cycles within this process. Writers in
	// other processes still race with last-write-wins semantics.
	mu sync.Mutex
}

// Option configures a QuizService.
type Option func(*QuizService)

// WithClock overrides the time source (tests use a fixed clock).
func WithClock(now func() time.Time) Option {
	return func(s *QuizService) { s.now = now }
}

// WithLogger sets the logger used for use-case events.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *QuizService) { s.log = log }
}

// WithBaseURL sets the public URL that share links are built from.
func WithBaseURL(baseURL string) Option {
	return func(s *QuizService) { s.baseURL = strings.TrimRight(baseURL, "/") }
}

// NewQuizService wires the use cases. A nil quizzes loader reads straight from the store.
func NewQuizService(store Store, quizzes QuizLoader, opts ...Option) *QuizService {
	if quizzes == nil {
		quizzes = NewStoreLoader(store)
	}
	s := &QuizService{
		store:   store,
		quizzes: quizzes,
		log:     logrus.StandardLogger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ShareLink returns the link a taker opens to start the quiz.
func (s *QuizService) ShareLink(quizID string) string {
	return s.baseURL + "/take?" + url.Values{"id": {quizID}}.Encode()
}

func (s *QuizService) invalidate(ctx context.Context, quizID string) {
	if inv, ok := s.quizzes.(QuizInvalidator); ok {
		inv.Invalidate(ctx, quizID)
	}
}

// newQuizID is the creation time in base36 followed by four random base36 characters.
func newQuizID(now time.Time) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	const suffix = 4

	var builder strings.Builder
	builder.WriteString(strconv.FormatInt(now.UnixMilli(), 36))
	for idx := 0; idx < suffix; idx++ {
		builder.WriteByte(alphabet[rand.Intn(len(alphabet))])
	}
	return builder.String()
}
