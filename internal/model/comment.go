package model

import "time"

// CommentKeyPrefix prefixes the Session Store key of a booking's rating.
const CommentKeyPrefix = "comentario-"

// CommentEntry is the saved rating of one booking card, stored under
// "comentario-<reservaId>".  There is no edit or delete path: once written
// the card only shows the saved view.
type CommentEntry struct {
	Avaliacao  int       `json:"avaliacao"`  // 1..5 stars
	Comentario string    `json:"comentario"` // non-empty
	Data       time.Time `json:"data"`
}
