// Package ticketkit is an IT-support ticket toolkit: an in-memory ticket store
// plus the tool set an assistant needs to search, file, and update tickets.
// It doubles as the reference wiring for building a domain toolkit on top of
// the agentry registry.
package ticketkit

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Priority of a ticket.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Status is the ticket lifecycle state. Transitions go open -> in_progress -> resolved.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
)

// SLATier of a user. Drives the priority an agent should pick when filing.
type SLATier string

const (
	SLAStandard SLATier = "standard"
	SLAHigh     SLATier = "high"
	SLACritical SLATier = "critical"
)

// Comment is a timestamped note on a ticket.
type Comment struct {
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}

// Ticket is one support ticket.
type Ticket struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UserEmail   string    `json:"user_email"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	CreatedAt   string    `json:"created_at"`
	Comments    []Comment `json:"comments,omitempty"`
}

// UserProfile describes a user known to the help desk.
type UserProfile struct {
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Department string  `json:"department"`
	Machine    string  `json:"machine"`
	SLATier    SLATier `json:"sla_tier"`
}

var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrUserNotFound   = errors.New("user profile not found")
)

// Store holds tickets and user profiles in memory. Safe for concurrent use,
// so a registry may execute ticket tools in parallel against one Store.
type Store struct {
	mu       sync.RWMutex
	tickets  []*Ticket
	profiles []UserProfile
	now      func() time.Time
}

// NewStore returns a Store pre-seeded with demo users and tickets.
func NewStore() *Store {
	return &Store{
		now: time.Now,
		profiles: []UserProfile{
			{Email: "alice@company.com", Name: "Alice Johnson", Department: "Engineering", Machine: "Dell XPS 15", SLATier: SLAHigh},
			{Email: "bob@company.com", Name: "Bob Smith", Department: "Marketing", Machine: "MacBook Pro 14", SLATier: SLAStandard},
			{Email: "carol@company.com", Name: "Carol White", Department: "IT", Machine: "ThinkPad X1 Carbon", SLATier: SLACritical},
		},
		tickets: []*Ticket{
			{
				ID:          "T-AA1B2C",
				Title:       "VPN disconnects every 30 minutes",
				Description: "VPN drops connection repeatedly, affecting remote work.",
				UserEmail:   "bob@company.com",
				Priority:    PriorityMedium,
				Status:      StatusOpen,
				CreatedAt:   "2026-02-18T09:00:00",
			},
			{
				ID:          "T-DD3E4F",
				Title:       "Outlook not syncing emails",
				Description: "Outlook inbox stuck, emails not arriving since Monday.",
				UserEmail:   "alice@company.com",
				Priority:    PriorityHigh,
				Status:      StatusInProgress,
				CreatedAt:   "2026-02-19T14:30:00",
			},
		},
	}
}

// NewEmptyStore returns a Store with no seeded data.
func NewEmptyStore() *Store {
	return &Store{now: time.Now}
}

func newTicketID() string {
	return "T-" + strings.ToUpper(uuid.NewString()[:6])
}

func (s *Store) timestamp() string {
	return s.now().Format("2006-01-02T15:04:05")
}

// Search returns tickets whose title or description contains the keyword,
// case-insensitively, across all statuses.
func (s *Store) Search(keyword string) []Ticket {
	kw := strings.ToLower(keyword)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Ticket
	for _, t := range s.tickets {
		if strings.Contains(strings.ToLower(t.Title), kw) || strings.Contains(strings.ToLower(t.Description), kw) {
			out = append(out, *t)
		}
	}
	return out
}

// Create files a new ticket with a fresh ID, status open, and the current timestamp.
func (s *Store) Create(title, description, userEmail string, priority Priority) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &Ticket{
		ID:          newTicketID(),
		Title:       title,
		Description: description,
		UserEmail:   userEmail,
		Priority:    priority,
		Status:      StatusOpen,
		CreatedAt:   s.timestamp(),
	}
	s.tickets = append(s.tickets, t)
	return *t
}

// UpdateStatus changes a ticket's status and returns the previous status.
func (s *Store) UpdateStatus(ticketID string, status Status) (Ticket, Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.findLocked(ticketID)
	if t == nil {
		return Ticket{}, "", fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}
	old := t.Status
	t.Status = status
	return *t, old, nil
}

// ListOpen returns all open or in-progress tickets. An empty or "all" priority
// filter returns every active ticket.
func (s *Store) ListOpen(priorityFilter string) []Ticket {
	filter := strings.ToLower(priorityFilter)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Ticket
	for _, t := range s.tickets {
		if t.Status != StatusOpen && t.Status != StatusInProgress {
			continue
		}
		if filter != "" && filter != "all" && string(t.Priority) != filter {
			continue
		}
		out = append(out, *t)
	}
	return out
}

// AddComment appends a timestamped comment and returns the updated ticket.
func (s *Store) AddComment(ticketID, text string) (Ticket, Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.findLocked(ticketID)
	if t == nil {
		return Ticket{}, Comment{}, fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}
	c := Comment{Timestamp: s.timestamp(), Text: text}
	t.Comments = append(t.Comments, c)
	return *t, c, nil
}

// Get returns the ticket with the given ID.
func (s *Store) Get(ticketID string) (Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.findLocked(ticketID)
	if t == nil {
		return Ticket{}, fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}
	return *t, nil
}

// UserByEmail looks up a user profile, case-insensitively.
func (s *Store) UserByEmail(email string) (UserProfile, error) {
	needle := strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.profiles {
		if strings.ToLower(p.Email) == needle {
			return p, nil
		}
	}
	return UserProfile{}, fmt.Errorf("%w: %s", ErrUserNotFound, email)
}

func (s *Store) findLocked(ticketID string) *Ticket {
	for _, t := range s.tickets {
		if t.ID == ticketID {
			return t
		}
	}
	return nil
}
