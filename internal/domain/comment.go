package domain

import (
	"fmt"
	"strings"
	"time"
)

// Comment is a single append-only entry in a ticket's conversation.
type Comment struct {
	ID         int64
	TicketNro  int64
	AuthorID   int64
	AuthorNome string
	AuthorTipo UserRole
	Texto      string
	CreatedAt  time.Time
}

// Render formats the comment as a timestamped block with author and role.
func (c Comment) Render() string {
	return fmt.Sprintf("[%s] %s (%s): %s",
		c.CreatedAt.Format("02/01/2006 15:04"), c.AuthorNome, c.AuthorTipo, c.Texto)
}

// RenderDescricao concatenates the ticket body with every comment block in
// insertion order. Existing text is never rewritten, only appended to.
func RenderDescricao(body string, comments []Comment) string {
	if len(comments) == 0 {
		return body
	}
	var sb strings.Builder
	sb.WriteString(body)
	for _, c := range comments {
		sb.WriteString("\n\n")
		sb.WriteString(c.Render())
	}
	return sb.String()
}
