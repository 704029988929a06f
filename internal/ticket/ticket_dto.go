package ticket

import "time"

type CreateTicketRequest struct {
	Category    string `json:"category" binding:"required"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Subject     string `json:"subject" binding:"required"`
	Description string `json:"description"`
}

type AssignTicketRequest struct {
	AssigneeID string `json:"assignee_id" binding:"required,uuid"`
}

type UpdateStatusRequest struct {
	Status     string `json:"status" binding:"required,oneof=open in-progress resolved closed cancelled"`
	Resolution string `json:"resolution"`
}

type RateTicketRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Feedback string `json:"feedback"`
}

type AddCommentRequest struct {
	Text     string `json:"text" binding:"required"`
	Internal bool   `json:"internal"`
}

type CommentResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	Internal  bool      `json:"internal"`
	CreatedAt time.Time `json:"created_at"`
}

type TicketResponse struct {
	ID           string     `json:"id"`
	TicketNumber string     `json:"ticket_number"`
	EmployeeID   string     `json:"employee_id"`
	Category     string     `json:"category"`
	Priority     string     `json:"priority"`
	Subject      string     `json:"subject"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status"`
	AssignedTo   string     `json:"assigned_to,omitempty"`
	ResolvedBy   string     `json:"resolved_by,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	Resolution   string     `json:"resolution,omitempty"`
	Rating       *int       `json:"rating,omitempty"`
	Feedback     string     `json:"feedback,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`

	Comments []CommentResponse `json:"comments,omitempty"`
}
