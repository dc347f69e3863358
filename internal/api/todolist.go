package api

import (
	"context"
	"fmt"

	"github.com/teamized/teamized/internal/model"
)

// TodolistRequest is the create/update payload for a to-do list.
type TodolistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// TodolistItemRequest is the create/update payload for a to-do list item.
type TodolistItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Done        bool   `json:"done,omitempty"`
}

// CreateTodolist creates a to-do list on a team.
func (c *Client) CreateTodolist(ctx context.Context, teamID string, req TodolistRequest) (model.Todolist, error) {
	var resp struct {
		Todolist model.Todolist `json:"todolist"`
	}
	if err := c.Post(ctx, "teams/"+teamID+"/todolists", req, &resp); err != nil {
		return model.Todolist{}, err
	}
	return resp.Todolist, nil
}

// UpdateTodolist updates a to-do list.
func (c *Client) UpdateTodolist(ctx context.Context, teamID, listID string, req TodolistRequest) (model.Todolist, error) {
	var resp struct {
		Todolist model.Todolist `json:"todolist"`
	}
	if err := c.Put(ctx, fmt.Sprintf("teams/%s/todolists/%s", teamID, listID), req, &resp); err != nil {
		return model.Todolist{}, err
	}
	return resp.Todolist, nil
}

// DeleteTodolist deletes a to-do list.
func (c *Client) DeleteTodolist(ctx context.Context, teamID, listID string) error {
	return c.Delete(ctx, fmt.Sprintf("teams/%s/todolists/%s", teamID, listID), nil)
}

// CreateTodolistItem adds an item to a to-do list.
func (c *Client) CreateTodolistItem(ctx context.Context, teamID, listID string, req TodolistItemRequest) (model.TodolistItem, error) {
	var resp struct {
		Item model.TodolistItem `json:"item"`
	}
	if err := c.Post(ctx, fmt.Sprintf("teams/%s/todolists/%s/items", teamID, listID), req, &resp); err != nil {
		return model.TodolistItem{}, err
	}
	return resp.Item, nil
}

// UpdateTodolistItem updates an item in a to-do list.
func (c *Client) UpdateTodolistItem(ctx context.Context, teamID, listID, itemID string, req TodolistItemRequest) (model.TodolistItem, error) {
	var resp struct {
		Item model.TodolistItem `json:"item"`
	}
	if err := c.Put(ctx, fmt.Sprintf("teams/%s/todolists/%s/items/%s", teamID, listID, itemID), req, &resp); err != nil {
		return model.TodolistItem{}, err
	}
	return resp.Item, nil
}

// DeleteTodolistItem removes an item from a to-do list.
func (c *Client) DeleteTodolistItem(ctx context.Context, teamID, listID, itemID string) error {
	return c.Delete(ctx, fmt.Sprintf("teams/%s/todolists/%s/items/%s", teamID, listID, itemID), nil)
}
