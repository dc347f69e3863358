// Package todo implements the to-do list features over the API and cache.
package todo

import (
	"context"
	"fmt"

	"github.com/teamized/teamized/internal/api"
	"github.com/teamized/teamized/internal/cache"
	"github.com/teamized/teamized/internal/model"
	"github.com/teamized/teamized/internal/syncer"
)

// Service wires the to-do API to the cache and synchronizer.
type Service struct {
	api   *api.Client
	store *cache.Store
	sync  *syncer.Synchronizer
}

// NewService creates a to-do service.
func NewService(client *api.Client, store *cache.Store, sync *syncer.Synchronizer) *Service {
	return &Service{api: client, store: store, sync: sync}
}

// Lists refreshes the team's to-do lists.
func (s *Service) Lists(ctx context.Context, teamID string) ([]model.Todolist, error) {
	items, err := s.sync.RefreshCategory(ctx, teamID, cache.CategoryTodolists)
	if err != nil {
		return nil, err
	}
	lists := make([]model.Todolist, 0, len(items))
	for _, it := range items {
		l, ok := it.(model.Todolist)
		if !ok {
			return nil, fmt.Errorf("todo: unexpected entity type %T in todolists", it)
		}
		lists = append(lists, l)
	}
	return lists, nil
}

// CreateList creates a to-do list and caches it.
func (s *Service) CreateList(ctx context.Context, teamID string, req api.TodolistRequest) (model.Todolist, error) {
	list, err := s.api.CreateTodolist(ctx, teamID, req)
	if err != nil {
		return model.Todolist{}, err
	}
	if err := s.store.UpsertEntity(teamID, cache.CategoryTodolists, list); err != nil {
		return model.Todolist{}, err
	}
	return list, nil
}

// EditList updates a to-do list and caches the new record.
func (s *Service) EditList(ctx context.Context, teamID, listID string, req api.TodolistRequest) (model.Todolist, error) {
	list, err := s.api.UpdateTodolist(ctx, teamID, listID, req)
	if err != nil {
		return model.Todolist{}, err
	}
	if err := s.store.UpsertEntity(teamID, cache.CategoryTodolists, list); err != nil {
		return model.Todolist{}, err
	}
	return list, nil
}

// DeleteList deletes a to-do list and drops it from the cache.
func (s *Service) DeleteList(ctx context.Context, teamID, listID string) error {
	if err := s.api.DeleteTodolist(ctx, teamID, listID); err != nil {
		return err
	}
	return s.store.RemoveEntity(teamID, cache.CategoryTodolists, listID)
}

// CreateItem adds an item to a list and stores it in the cached list.
func (s *Service) CreateItem(ctx context.Context, teamID, listID string, req api.TodolistItemRequest) (model.TodolistItem, error) {
	item, err := s.api.CreateTodolistItem(ctx, teamID, listID, req)
	if err != nil {
		return model.TodolistItem{}, err
	}
	if err := s.store.PutTodolistItem(teamID, listID, item); err != nil {
		return model.TodolistItem{}, err
	}
	return item, nil
}

// EditItem updates an item and stores the new record in the cached list.
func (s *Service) EditItem(ctx context.Context, teamID, listID, itemID string, req api.TodolistItemRequest) (model.TodolistItem, error) {
	item, err := s.api.UpdateTodolistItem(ctx, teamID, listID, itemID, req)
	if err != nil {
		return model.TodolistItem{}, err
	}
	if err := s.store.PutTodolistItem(teamID, listID, item); err != nil {
		return model.TodolistItem{}, err
	}
	return item, nil
}

// DeleteItem removes an item from a list and from the cached list.
func (s *Service) DeleteItem(ctx context.Context, teamID, listID, itemID string) error {
	if err := s.api.DeleteTodolistItem(ctx, teamID, listID, itemID); err != nil {
		return err
	}
	return s.store.RemoveTodolistItem(teamID, listID, itemID)
}
