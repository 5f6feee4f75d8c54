package ticketkit

import (
	"context"
	"fmt"

	"github.com/agentry-go/agentry"
)

// TicketSummary is the compact ticket view returned by search and list tools.
type TicketSummary struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Priority  Priority `json:"priority"`
	Status    Status   `json:"status"`
	UserEmail string   `json:"user_email"`
	CreatedAt string   `json:"created_at"`
}

func summarize(tickets []Ticket) []TicketSummary {
	out := make([]TicketSummary, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, TicketSummary{
			ID:        t.ID,
			Title:     t.Title,
			Priority:  t.Priority,
			Status:    t.Status,
			UserEmail: t.UserEmail,
			CreatedAt: t.CreatedAt,
		})
	}
	return out
}

// clientErr converts a store lookup failure into a ClientError so the runner
// routes it back to the model as correctable input instead of masking it.
func clientErr(err error) error {
	return &agentry.ClientError{Reason: err.Error(), Err: err}
}

type searchArgs struct {
	Keyword string `json:"keyword" description:"Word or phrase to search for in ticket titles and descriptions"`
}

type searchResult struct {
	Keyword    string          `json:"keyword"`
	MatchCount int             `json:"match_count"`
	Tickets    []TicketSummary `json:"tickets"`
}

// NewSearchTicketsTool searches all tickets by keyword in title or description.
func NewSearchTicketsTool(store *Store) (agentry.Tool, error) {
	return agentry.NewTool("search_tickets",
		"Search support tickets by keyword. Scans both title and description. "+
			"Returns matching tickets with their ID, title, priority, status, and owner email. "+
			"Always call this first to check for duplicates before creating a new ticket.",
		func(_ context.Context, args searchArgs) (searchResult, error) {
			if args.Keyword == "" {
				return searchResult{}, &agentry.ClientError{Reason: "keyword is required", Err: agentry.ErrValidation}
			}
			matches := summarize(store.Search(args.Keyword))
			return searchResult{Keyword: args.Keyword, MatchCount: len(matches), Tickets: matches}, nil
		},
		agentry.WithTags("tickets", "read"),
	)
}

type createArgs struct {
	Title       string `json:"title" description:"Short title summarising the issue (max ~80 chars)"`
	Description string `json:"description" description:"Full description of the problem with all relevant details"`
	UserEmail   string `json:"user_email" description:"Email address of the user reporting the issue"`
	Priority    string `json:"priority" enum:"low,medium,high" description:"Ticket priority based on user SLA: critical/high SLA means high, standard SLA means medium or low"`
}

// NewCreateTicketTool files a new ticket and returns its ID.
func NewCreateTicketTool(store *Store) (agentry.Tool, error) {
	return agentry.NewTool("create_ticket",
		"Create a new IT support ticket. Only call this after search_tickets confirms "+
			"no duplicate exists and after get_user_profile confirms the correct priority. "+
			"Returns the new ticket ID, priority, status, and creation timestamp.",
		func(_ context.Context, args createArgs) (TicketSummary, error) {
			if args.Title == "" || args.Description == "" || args.UserEmail == "" {
				return TicketSummary{}, &agentry.ClientError{
					Reason: "title, description, and user_email are all required",
					Err:    agentry.ErrValidation,
				}
			}
			t := store.Create(args.Title, args.Description, args.UserEmail, Priority(args.Priority))
			return summarize([]Ticket{t})[0], nil
		},
		agentry.WithStrict(),
		agentry.WithTags("tickets", "write"),
	)
}

type updateStatusArgs struct {
	TicketID string `json:"ticket_id" description:"The ticket ID to update (e.g. T-AA1B2C)"`
	Status   string `json:"status" enum:"open,in_progress,resolved" description:"The new status for the ticket"`
}

type updateStatusResult struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	OldStatus Status   `json:"old_status"`
	NewStatus Status   `json:"new_status"`
	Priority  Priority `json:"priority"`
	UserEmail string   `json:"user_email"`
}

// NewUpdateTicketStatusTool changes a ticket's lifecycle status.
func NewUpdateTicketStatusTool(store *Store) (agentry.Tool, error) {
	return agentry.NewTool("update_ticket_status",
		"Update the status of an existing support ticket. "+
			"Valid transitions: open to in_progress to resolved. "+
			"Returns the updated ticket details. "+
			"Use this when a user says their issue is fixed or when escalating.",
		func(_ context.Context, args updateStatusArgs) (updateStatusResult, error) {
			t, old, err := store.UpdateStatus(args.TicketID, Status(args.Status))
			if err != nil {
				return updateStatusResult{}, clientErr(err)
			}
			return updateStatusResult{
				ID:        t.ID,
				Title:     t.Title,
				OldStatus: old,
				NewStatus: t.Status,
				Priority:  t.Priority,
				UserEmail: t.UserEmail,
			}, nil
		},
		agentry.WithStrict(),
		agentry.WithTags("tickets", "write"),
	)
}

type listOpenArgs struct {
	PriorityFilter string `json:"priority_filter" enum:"low,medium,high,all" description:"Filter by priority. Use 'all' to return every open/in-progress ticket."`
}

type listOpenResult struct {
	PriorityFilter string          `json:"priority_filter"`
	Count          int             `json:"count"`
	Tickets        []TicketSummary `json:"tickets"`
}

// NewListOpenTicketsTool returns all open or in-progress tickets.
func NewListOpenTicketsTool(store *Store) (agentry.Tool, error) {
	return agentry.NewTool("list_open_tickets",
		"List all open or in-progress support tickets, optionally filtered by priority. "+
			"Use priority_filter='all' to see every active ticket. "+
			"Useful when a user asks 'what tickets are open?' or 'how many high-priority issues exist?'",
		func(_ context.Context, args listOpenArgs) (listOpenResult, error) {
			matches := summarize(store.ListOpen(args.PriorityFilter))
			return listOpenResult{PriorityFilter: args.PriorityFilter, Count: len(matches), Tickets: matches}, nil
		},
		agentry.WithTags("tickets", "read"),
	)
}

type addCommentArgs struct {
	TicketID string `json:"ticket_id" description:"The ticket ID to comment on (e.g. T-AA1B2C)"`
	Comment  string `json:"comment" description:"The comment text to append to the ticket"`
}

type addCommentResult struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	CommentAdded  string `json:"comment_added"`
	Timestamp     string `json:"timestamp"`
	TotalComments int    `json:"total_comments"`
}

// NewAddCommentTool appends a timestamped comment to a ticket.
func NewAddCommentTool(store *Store) (agentry.Tool, error) {
	return agentry.NewTool("add_comment",
		"Add a timestamped comment to an existing support ticket. "+
			"Use this to record investigation notes, workarounds, or status updates "+
			"on behalf of the support agent.",
		func(_ context.Context, args addCommentArgs) (addCommentResult, error) {
			if args.Comment == "" {
				return addCommentResult{}, &agentry.ClientError{Reason: "comment is required", Err: agentry.ErrValidation}
			}
			t, c, err := store.AddComment(args.TicketID, args.Comment)
			if err != nil {
				return addCommentResult{}, clientErr(err)
			}
			return addCommentResult{
				ID:            t.ID,
				Title:         t.Title,
				CommentAdded:  c.Text,
				Timestamp:     c.Timestamp,
				TotalComments: len(t.Comments),
			}, nil
		},
		agentry.WithStrict(),
		agentry.WithTags("tickets", "write"),
	)
}

type userProfileArgs struct {
	Email string `json:"email" description:"The email address of the user to look up"`
}

// NewGetUserProfileTool looks up a user's department, machine, and SLA tier.
func NewGetUserProfileTool(store *Store) (agentry.Tool, error) {
	return agentry.NewTool("get_user_profile",
		"Retrieve a user's profile by their email address. "+
			"Returns their name, department, machine type, and SLA tier "+
			"(standard / high / critical). Use this to determine ticket priority.",
		func(_ context.Context, args userProfileArgs) (UserProfile, error) {
			p, err := store.UserByEmail(args.Email)
			if err != nil {
				return UserProfile{}, clientErr(err)
			}
			return p, nil
		},
		agentry.WithTags("users", "read"),
	)
}

// Tools builds the full toolkit against one store.
func Tools(store *Store) ([]agentry.Tool, error) {
	builders := []func(*Store) (agentry.Tool, error){
		NewSearchTicketsTool,
		NewCreateTicketTool,
		NewUpdateTicketStatusTool,
		NewListOpenTicketsTool,
		NewAddCommentTool,
		NewGetUserProfileTool,
	}
	out := make([]agentry.Tool, 0, len(builders))
	for _, build := range builders {
		tool, err := build(store)
		if err != nil {
			return nil, fmt.Errorf("build ticket tool: %w", err)
		}
		out = append(out, tool)
	}
	return out, nil
}

// Register builds the toolkit and registers every tool on the registry.
func Register(reg *agentry.Registry, store *Store) error {
	tools, err := Tools(store)
	if err != nil {
		return err
	}
	for _, tool := range tools {
		reg.Register(tool)
	}
	return nil
}
