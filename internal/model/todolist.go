package model

// Todolist is a team to-do list. Items are keyed by item id.
type Todolist struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Color       string                  `json:"color"`
	Items       map[string]TodolistItem `json:"items"`
}

func (l Todolist) EntityID() string { return l.ID }

// TodolistItem is a single entry in a to-do list.
type TodolistItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
	DoneByID    string `json:"done_by_id"`
	DoneAt      string `json:"done_at"`
}

func (i TodolistItem) EntityID() string { return i.ID }
