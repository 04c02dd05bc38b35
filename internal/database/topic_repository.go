package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/studybot/pkg/models"
	"github.com/jmoiron/sqlx"
)

// TopicRepository handles database operations for topics
type TopicRepository struct {
	db *sqlx.DB
}

// NewTopicRepository creates a new repository instance
func NewTopicRepository(db *sqlx.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

// GetAll retrieves all topics ordered by name
func (r *TopicRepository) GetAll(ctx context.Context) ([]models.Topic, error) {
	var topics []models.Topic
	err := r.db.SelectContext(ctx, &topics, "SELECT id, name, icon, created_at FROM topics ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to get topics: %v", err)
	}
	return topics, nil
}

// GetByID retrieves a topic by its ID
func (r *TopicRepository) GetByID(ctx context.Context, id int64) (*models.Topic, error) {
	var topic models.Topic
	query := r.db.Rebind("SELECT id, name, icon, created_at FROM topics WHERE id = ?")
	err := r.db.GetContext(ctx, &topic, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("topic %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get topic: %v", err)
	}
	return &topic, nil
}

// GetOrCreate returns the topic with the given name, creating it when absent
func (r *TopicRepository) GetOrCreate(ctx context.Context, name, icon string) (*models.Topic, error) {
	var topic models.Topic
	query := r.db.Rebind("SELECT id, name, icon, created_at FROM topics WHERE name = ?")
	err := r.db.GetContext(ctx, &topic, query, name)
	if err == nil {
		return &topic, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up topic %q: %v", name, err)
	}

	now := time.Now().UTC()
	insert := r.db.Rebind("INSERT INTO topics (name, icon, created_at) VALUES (?, ?, ?)")
	id, err := insertReturningID(r.db, insert, name, icon, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create topic %q: %v", name, err)
	}
	return &models.Topic{ID: id, Name: name, Icon: icon, CreatedAt: now}, nil
}
