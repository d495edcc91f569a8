package store

import (
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"askboard/internal/metrics"
	"askboard/internal/model"
	"askboard/internal/moderation"
)

// Config carries the store's collaborators. Now is optional and defaults to
// time.Now; tests inject a fake clock through it.
type Config struct {
	Classifier moderation.Classifier
	Now        func() time.Time
}

// Store owns all session and question state for the process lifetime.
// Every operation takes ids rather than handles so each read-modify-write
// runs atomically under the store lock; callers never hold a session across
// operations. A session's status is derived from ExpiresAt and refreshed on
// every access — it never flips back to active.
type Store struct {
	// mu is a plain mutex: even read paths mutate lazily-derived status.
	mu       sync.Mutex
	sessions map[string]*model.Session

	classifier moderation.Classifier
	now        func() time.Time
}

func New(c Config) *Store {
	if c.Now == nil {
		c.Now = time.Now
	}
	return &Store{
		sessions:   make(map[string]*model.Session),
		classifier: c.Classifier,
		now:        c.Now,
	}
}

// CreatedSession is the creation result handed to the routing layer. It is
// the only place the store surfaces both credentials together.
type CreatedSession struct {
	ID           string
	AdminKey     string
	JoinPassword string
	Name         string
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// CreateSession inserts a new active session. Duration bounds are enforced
// upstream; this never fails. An empty sanitized name falls back to a
// generated "adjective noun" name.
func (s *Store) CreateSession(durationMinutes int, nameInput string) CreatedSession {
	name := moderation.SanitizeSessionName(nameInput)
	if name == "" {
		name = friendlyName()
	}

	createdAt := s.now()
	sess := &model.Session{
		ID:           newID(sessionIDLength),
		AdminKey:     newID(adminKeyLength),
		JoinPassword: newJoinPassword(),
		Name:         name,
		CreatedAt:    createdAt,
		ExpiresAt:    createdAt.Add(time.Duration(durationMinutes) * time.Minute),
		Status:       model.SessionActive,
		Questions:    make(map[string]*model.Question),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	metrics.SessionsCreatedTotal.Inc()

	return CreatedSession{
		ID:           sess.ID,
		AdminKey:     sess.AdminKey,
		JoinPassword: sess.JoinPassword,
		Name:         sess.Name,
		CreatedAt:    sess.CreatedAt,
		ExpiresAt:    sess.ExpiresAt,
	}
}

// Admission is the credential view the gateway checks at connect time.
type Admission struct {
	Status       model.SessionStatus
	AdminKey     string
	JoinPassword string
}

// Admission returns the session's current status and secrets for the
// connection admission decision. Status is refreshed lazily, so it is only
// guaranteed accurate at the moment of the call.
func (s *Store) Admission(id string) (Admission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Admission{}, ErrSessionNotFound
	}
	s.ensureStatusLocked(sess)

	return Admission{
		Status:       sess.Status,
		AdminKey:     sess.AdminKey,
		JoinPassword: sess.JoinPassword,
	}, nil
}

// Snapshot returns the client-facing view of a session, refreshing its
// expiry status as a side effect.
func (s *Store) Snapshot(id string) (*model.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.ensureStatusLocked(sess)
	return s.snapshotLocked(sess), nil
}

// SubmitQuestion sanitizes, validates and classifies text, then appends a
// question to an active session. The returned question snapshot carries the
// moderation verdict so the gateway can alert admins.
func (s *Store) SubmitQuestion(id, text, authorAlias string) (*model.SessionSnapshot, model.QuestionSnapshot, error) {
	sanitized := moderation.SanitizeQuestion(text)
	if sanitized == "" {
		return nil, model.QuestionSnapshot{}, ErrEmptyQuestion
	}
	if utf8.RuneCountInString(sanitized) > moderation.MaxQuestionLength {
		return nil, model.QuestionSnapshot{}, ErrQuestionTooLong
	}

	verdict := s.classifier.Classify(sanitized)

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, model.QuestionSnapshot{}, ErrSessionNotFound
	}
	if s.ensureStatusLocked(sess) != model.SessionActive {
		return nil, model.QuestionSnapshot{}, ErrSessionInactive
	}

	q := &model.Question{
		ID:          newID(questionIDLength),
		Text:        sanitized,
		AuthorAlias: moderation.SanitizeAlias(authorAlias),
		CreatedAt:   s.now(),
		Upvotes:     make(map[string]struct{}),
		Status:      model.QuestionOpen,
		Moderation:  model.ModerationApproved,
	}
	if verdict.Flagged {
		q.Moderation = model.ModerationNeedsReview
		q.FlaggedReasons = verdict.Reasons
		metrics.QuestionsFlaggedTotal.Inc()
	}
	sess.Questions[q.ID] = q

	metrics.QuestionsSubmittedTotal.Inc()

	return s.snapshotLocked(sess), formatQuestion(q), nil
}

// Upvote records participantID's vote on a question. Votes on missing,
// answered or unmoderated questions are silently ignored so unreviewed
// content cannot be ranked up. Idempotent per participant.
func (s *Store) Upvote(id, questionID, participantID string) (*model.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.ensureStatusLocked(sess) != model.SessionActive {
		return nil, ErrSessionInactive
	}

	q, ok := sess.Questions[questionID]
	if ok && q.Status == model.QuestionOpen && q.Moderation == model.ModerationApproved {
		q.Upvotes[participantID] = struct{}{}
	}

	return s.snapshotLocked(sess), nil
}

// MarkAnswered sets a question to answered and unconditionally clears its
// moderation flags: answering is itself an implicit approval. Works on
// expired sessions so presenters can tidy up after time runs out. The bool
// reports whether the question existed.
func (s *Store) MarkAnswered(id, questionID string) (*model.SessionSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false, ErrSessionNotFound
	}
	s.ensureStatusLocked(sess)

	q, ok := sess.Questions[questionID]
	if !ok {
		return s.snapshotLocked(sess), false, nil
	}
	q.Status = model.QuestionAnswered
	q.Moderation = model.ModerationApproved
	q.FlaggedReasons = nil

	return s.snapshotLocked(sess), true, nil
}

// Approve clears a question's moderation flags without touching its
// open/answered status. The bool reports whether anything changed.
func (s *Store) Approve(id, questionID string) (*model.SessionSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false, ErrSessionNotFound
	}
	if s.ensureStatusLocked(sess) != model.SessionActive {
		return nil, false, ErrSessionInactive
	}

	q, ok := sess.Questions[questionID]
	if !ok || q.Moderation == model.ModerationApproved {
		return s.snapshotLocked(sess), false, nil
	}
	q.Moderation = model.ModerationApproved
	q.FlaggedReasons = nil

	return s.snapshotLocked(sess), true, nil
}

// RemoveQuestion deletes a question outright. The bool reports whether
// anything was removed.
func (s *Store) RemoveQuestion(id, questionID string) (*model.SessionSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false, ErrSessionNotFound
	}
	s.ensureStatusLocked(sess)

	if _, ok := sess.Questions[questionID]; !ok {
		return s.snapshotLocked(sess), false, nil
	}
	delete(sess.Questions, questionID)

	return s.snapshotLocked(sess), true, nil
}

// ListActive returns summaries of all currently active sessions, newest
// first, refreshing each session's status on the way.
func (s *Store) ListActive() []model.SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries := make([]model.SessionSummary, 0, len(s.sessions))
	for _, sess := range s.sessions {
		if s.ensureStatusLocked(sess) != model.SessionActive {
			continue
		}
		summaries = append(summaries, model.SessionSummary{
			ID:        sess.ID,
			Name:      sess.Name,
			CreatedAt: sess.CreatedAt.UnixMilli(),
			ExpiresAt: sess.ExpiresAt.UnixMilli(),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt != summaries[j].CreatedAt {
			return summaries[i].CreatedAt > summaries[j].CreatedAt
		}
		return summaries[i].ID < summaries[j].ID
	})
	return summaries
}

// SweepExpired flips every still-active session whose expiry has passed and
// returns their snapshots so the caller can broadcast the status change.
// This is the only proactive expiry path; Snapshot and Admission only flip
// status for the caller that happens to ask.
func (s *Store) SweepExpired() []*model.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []*model.SessionSnapshot
	for _, sess := range s.sessions {
		if sess.Status != model.SessionActive {
			continue
		}
		if s.ensureStatusLocked(sess) == model.SessionExpired {
			expired = append(expired, s.snapshotLocked(sess))
		}
	}
	return expired
}

// ensureStatusLocked refreshes the derived status from ExpiresAt. The flip
// is one-way; an expired session never reactivates.
func (s *Store) ensureStatusLocked(sess *model.Session) model.SessionStatus {
	if sess.Status == model.SessionActive && !sess.ExpiresAt.After(s.now()) {
		sess.Status = model.SessionExpired
		metrics.SessionsExpiredTotal.Inc()
	}
	return sess.Status
}

// snapshotLocked builds the canonical client view: questions sorted by vote
// count descending, ties by earlier creation, then by id for determinism.
func (s *Store) snapshotLocked(sess *model.Session) *model.SessionSnapshot {
	questions := make([]model.QuestionSnapshot, 0, len(sess.Questions))
	for _, q := range sess.Questions {
		questions = append(questions, formatQuestion(q))
	}

	sort.Slice(questions, func(i, j int) bool {
		if questions[i].Upvotes != questions[j].Upvotes {
			return questions[i].Upvotes > questions[j].Upvotes
		}
		if questions[i].CreatedAt != questions[j].CreatedAt {
			return questions[i].CreatedAt < questions[j].CreatedAt
		}
		return questions[i].ID < questions[j].ID
	})

	return &model.SessionSnapshot{
		ID:        sess.ID,
		Name:      sess.Name,
		Status:    sess.Status,
		CreatedAt: sess.CreatedAt.UnixMilli(),
		ExpiresAt: sess.ExpiresAt.UnixMilli(),
		Questions: questions,
	}
}

func formatQuestion(q *model.Question) model.QuestionSnapshot {
	reasons := make([]string, len(q.FlaggedReasons))
	copy(reasons, q.FlaggedReasons)

	return model.QuestionSnapshot{
		ID:             q.ID,
		Text:           q.Text,
		AuthorAlias:    q.AuthorAlias,
		CreatedAt:      q.CreatedAt.UnixMilli(),
		Upvotes:        len(q.Upvotes),
		Status:         q.Status,
		Moderation:     q.Moderation,
		FlaggedReasons: reasons,
	}
}
