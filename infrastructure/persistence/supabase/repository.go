// Package supabase persists ideas in the remote table pair: ideas
// (owned by user id) and idea_resources (owned by idea id). Every
// operation is scoped by the owning user's identifier.
package supabase

import (
	"context"
	"encoding/json"
	"time"

	"ideaflow-backend/domain/idea"
	"ideaflow-backend/pkg/errors"
	"ideaflow-backend/pkg/utils"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

const (
	ideasTable     = "ideas"
	resourcesTable = "idea_resources"
)

// Repository implements ports.IdeaRepository over the Supabase tables
type Repository struct {
	client *supa.Client
	logger *zap.Logger
}

// New creates a repository over the given Supabase project
func New(url, serviceKey string, logger *zap.Logger) (*Repository, error) {
	client, err := supa.NewClient(url, serviceKey, &supa.ClientOptions{})
	if err != nil {
		return nil, errors.NewUnknownError("creating supabase client", err)
	}
	return &Repository{client: client, logger: logger}, nil
}

type ideaRow struct {
	ID           string   `json:"id"`
	UserID       string   `json:"user_id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Priority     string   `json:"priority"`
	Status       string   `json:"status"`
	Tags         []string `json:"tags"`
	ReminderDate *string  `json:"reminder_date"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type resourceRow struct {
	ID        string  `json:"id"`
	IdeaID    string  `json:"idea_id"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	URL       *string `json:"url"`
	Content   *string `json:"content"`
	CreatedAt string  `json:"created_at"`
}

// ListByOwner loads the owner's ideas ordered by creation time
// descending, with resources attached. Two queries total.
func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]idea.Idea, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, _, err := r.client.From(ideasTable).
		Select("*", "", false).
		Eq("user_id", ownerID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, errors.NewTransientError("listing ideas", err)
	}

	var rows []ideaRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errors.NewUnknownError("decoding idea rows", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	resData, _, err := r.client.From(resourcesTable).
		Select("*", "", false).
		In("idea_id", ids).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, errors.NewTransientError("listing idea resources", err)
	}

	var resRows []resourceRow
	if err := json.Unmarshal(resData, &resRows); err != nil {
		return nil, errors.NewUnknownError("decoding resource rows", err)
	}

	byIdea := make(map[string][]idea.Resource, len(rows))
	for _, row := range resRows {
		res, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		byIdea[row.IdeaID] = append(byIdea[row.IdeaID], res)
	}

	list := make([]idea.Idea, 0, len(rows))
	for _, row := range rows {
		it, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		it.Resources = byIdea[row.ID]
		list = append(list, it)
	}
	return list, nil
}

// Insert persists the idea row, then its resources. If the resource
// insert fails after the idea row succeeded, the idea row is deleted
// again (compensating rollback) and the failure reported; a failed
// rollback is reported as a partial write.
func (r *Repository) Insert(ctx context.Context, ownerID string, it idea.Idea) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, _, err := r.client.From(ideasTable).
		Insert(fromDomain(ownerID, it), false, "", "", "").
		Execute()
	if err != nil {
		return errors.NewTransientError("inserting idea", err)
	}

	if len(it.Resources) == 0 {
		return nil
	}

	if err := r.insertResources(it.ID, it.Resources); err != nil {
		if _, _, delErr := r.client.From(ideasTable).
			Delete("", "").
			Eq("id", it.ID).
			Eq("user_id", ownerID).
			Execute(); delErr != nil {
			r.logger.Error("rollback of partially written idea failed",
				zap.String("ideaID", it.ID),
				zap.Error(delErr),
			)
			return errors.NewUnknownError("idea written without its resources and rollback failed", err).
				WithDetails(map[string]interface{}{"ideaID": it.ID})
		}
		return errors.NewTransientError("inserting idea resources", err)
	}
	return nil
}

// Update rewrites the idea row. With replaceResources set, the
// previous resource set is deleted and the current one inserted in
// its place (delete-all-then-insert, not a merge).
func (r *Repository) Update(ctx context.Context, ownerID string, it idea.Idea, replaceResources bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, _, err := r.client.From(ideasTable).
		Update(fromDomain(ownerID, it), "representation", "").
		Eq("id", it.ID).
		Eq("user_id", ownerID).
		Execute()
	if err != nil {
		return errors.NewTransientError("updating idea", err)
	}

	var updated []ideaRow
	if err := json.Unmarshal(data, &updated); err == nil && len(updated) == 0 {
		return errors.NewNotFoundError("idea")
	}

	if !replaceResources {
		return nil
	}

	if _, _, err := r.client.From(resourcesTable).
		Delete("", "").
		Eq("idea_id", it.ID).
		Execute(); err != nil {
		return errors.NewTransientError("deleting idea resources", err)
	}
	if len(it.Resources) == 0 {
		return nil
	}
	if err := r.insertResources(it.ID, it.Resources); err != nil {
		return errors.NewTransientError("inserting idea resources", err)
	}
	return nil
}

// Delete removes the idea's resources, then the idea row itself
func (r *Repository) Delete(ctx context.Context, ownerID string, ideaID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, _, err := r.client.From(resourcesTable).
		Delete("", "").
		Eq("idea_id", ideaID).
		Execute(); err != nil {
		return errors.NewTransientError("deleting idea resources", err)
	}

	data, _, err := r.client.From(ideasTable).
		Delete("representation", "").
		Eq("id", ideaID).
		Eq("user_id", ownerID).
		Execute()
	if err != nil {
		return errors.NewTransientError("deleting idea", err)
	}

	var deleted []ideaRow
	if err := json.Unmarshal(data, &deleted); err == nil && len(deleted) == 0 {
		return errors.NewNotFoundError("idea")
	}
	return nil
}

func (r *Repository) insertResources(ideaID string, resources []idea.Resource) error {
	rows := make([]resourceRow, 0, len(resources))
	for _, res := range resources {
		rows = append(rows, resourceFromDomain(ideaID, res))
	}

	_, _, err := r.client.From(resourcesTable).
		Insert(rows, false, "", "", "").
		Execute()
	return err
}

func (row ideaRow) toDomain() (idea.Idea, error) {
	category, err := idea.ParseCategory(row.Category)
	if err != nil {
		return idea.Idea{}, err
	}
	priority, err := idea.ParsePriority(row.Priority)
	if err != nil {
		return idea.Idea{}, err
	}
	status, err := idea.ParseStatus(row.Status)
	if err != nil {
		return idea.Idea{}, err
	}

	createdAt, err := utils.ParseRFC3339(row.CreatedAt)
	if err != nil {
		return idea.Idea{}, errors.NewUnknownError("invalid created_at timestamp", err)
	}
	updatedAt, err := utils.ParseRFC3339(row.UpdatedAt)
	if err != nil {
		return idea.Idea{}, errors.NewUnknownError("invalid updated_at timestamp", err)
	}

	var reminder *time.Time
	if row.ReminderDate != nil && *row.ReminderDate != "" {
		t, err := utils.ParseRFC3339(*row.ReminderDate)
		if err != nil {
			return idea.Idea{}, errors.NewUnknownError("invalid reminder_date timestamp", err)
		}
		reminder = &t
	}

	return idea.Idea{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		Category:     category,
		Priority:     priority,
		Status:       status,
		Tags:         row.Tags,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		ReminderDate: reminder,
	}, nil
}

func (row resourceRow) toDomain() (idea.Resource, error) {
	resType, err := idea.ParseResourceType(row.Type)
	if err != nil {
		return idea.Resource{}, err
	}
	createdAt, err := utils.ParseRFC3339(row.CreatedAt)
	if err != nil {
		return idea.Resource{}, errors.NewUnknownError("invalid resource created_at timestamp", err)
	}

	res := idea.Resource{
		ID:        row.ID,
		Type:      resType,
		Title:     row.Title,
		CreatedAt: createdAt,
	}
	if row.URL != nil {
		res.URL = *row.URL
	}
	if row.Content != nil {
		res.Content = *row.Content
	}
	return res, nil
}

func fromDomain(ownerID string, it idea.Idea) ideaRow {
	tags := it.Tags
	if tags == nil {
		tags = []string{}
	}

	row := ideaRow{
		ID:          it.ID,
		UserID:      ownerID,
		Title:       it.Title,
		Description: it.Description,
		Category:    string(it.Category),
		Priority:    string(it.Priority),
		Status:      string(it.Status),
		Tags:        tags,
		CreatedAt:   utils.FormatRFC3339(it.CreatedAt),
		UpdatedAt:   utils.FormatRFC3339(it.UpdatedAt),
	}
	if it.ReminderDate != nil {
		s := utils.FormatRFC3339(*it.ReminderDate)
		row.ReminderDate = &s
	}
	return row
}

func resourceFromDomain(ideaID string, res idea.Resource) resourceRow {
	row := resourceRow{
		ID:        res.ID,
		IdeaID:    ideaID,
		Type:      string(res.Type),
		Title:     res.Title,
		CreatedAt: utils.FormatRFC3339(res.CreatedAt),
	}
	if res.URL != "" {
		row.URL = &res.URL
	}
	if res.Content != "" {
		row.Content = &res.Content
	}
	return row
}
