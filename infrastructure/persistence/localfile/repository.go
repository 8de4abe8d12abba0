// Package localfile persists each owner's ideas as a single JSON blob
// on local disk. The blob is replaced atomically on every write; a
// missing or corrupt blob reads as an empty list, never a fatal error.
package localfile

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"ideaflow-backend/domain/idea"
	"ideaflow-backend/pkg/errors"
	"ideaflow-backend/pkg/utils"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"
)

// Repository implements ports.IdeaRepository over per-owner blobs
type Repository struct {
	dir    string
	logger *zap.Logger

	// Serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

// New creates a repository rooted at dir, creating it if needed
func New(dir string, logger *zap.Logger) (*Repository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.NewTransientError("creating data directory", err)
	}
	return &Repository{dir: dir, logger: logger}, nil
}

// Serialized form: enum fields stay raw strings so loading always runs
// through the parse step, and timestamps are ISO-8601 strings.
type ideaRecord struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Category     string           `json:"category"`
	Priority     string           `json:"priority"`
	Status       string           `json:"status"`
	Tags         []string         `json:"tags"`
	Resources    []resourceRecord `json:"resources"`
	CreatedAt    string           `json:"createdAt"`
	UpdatedAt    string           `json:"updatedAt"`
	ReminderDate string           `json:"reminderDate,omitempty"`
}

type resourceRecord struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	URL       string            `json:"url,omitempty"`
	Content   string            `json:"content,omitempty"`
	Preview   *idea.LinkPreview `json:"preview,omitempty"`
	CreatedAt string            `json:"createdAt"`
}

// ListByOwner loads the owner's blob, most recently created first
func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]idea.Idea, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ownerID)
}

// Insert adds the idea to the owner's blob. The single-blob write
// makes the idea and its resources one physical unit.
func (r *Repository) Insert(ctx context.Context, ownerID string, it idea.Idea) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ownerID)
	if err != nil {
		return err
	}

	list = append([]idea.Idea{it}, list...)
	return r.save(ownerID, list)
}

// Update replaces the stored idea wholesale. The blob holds complete
// records, so resource replacement falls out of the rewrite.
func (r *Repository) Update(ctx context.Context, ownerID string, it idea.Idea, replaceResources bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ownerID)
	if err != nil {
		return err
	}

	for i := range list {
		if list[i].ID == it.ID {
			list[i] = it
			return r.save(ownerID, list)
		}
	}
	return errors.NewNotFoundError("idea")
}

// Delete removes the idea, and with it its resources
func (r *Repository) Delete(ctx context.Context, ownerID string, ideaID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ownerID)
	if err != nil {
		return err
	}

	for i := range list {
		if list[i].ID == ideaID {
			list = append(list[:i], list[i+1:]...)
			return r.save(ownerID, list)
		}
	}
	return errors.NewNotFoundError("idea")
}

func (r *Repository) path(ownerID string) string {
	return filepath.Join(r.dir, ownerID+".json")
}

func (r *Repository) load(ownerID string) ([]idea.Idea, error) {
	data, err := os.ReadFile(r.path(ownerID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewTransientError("reading idea blob", err)
	}

	var records []ideaRecord
	if err := json.Unmarshal(data, &records); err != nil {
		r.logger.Warn("corrupt idea blob, treating as empty",
			zap.String("ownerID", ownerID),
			zap.Error(err),
		)
		return nil, nil
	}

	list := make([]idea.Idea, 0, len(records))
	for _, rec := range records {
		it, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		list = append(list, it)
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (r *Repository) save(ownerID string, list []idea.Idea) error {
	records := make([]ideaRecord, 0, len(list))
	for _, it := range list {
		records = append(records, fromDomain(it))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.NewUnknownError("encoding idea blob", err)
	}

	if err := atomic.WriteFile(r.path(ownerID), bytes.NewReader(data)); err != nil {
		return errors.NewTransientError("writing idea blob", err)
	}
	return nil
}

func (rec ideaRecord) toDomain() (idea.Idea, error) {
	category, err := idea.ParseCategory(rec.Category)
	if err != nil {
		return idea.Idea{}, err
	}
	priority, err := idea.ParsePriority(rec.Priority)
	if err != nil {
		return idea.Idea{}, err
	}
	status, err := idea.ParseStatus(rec.Status)
	if err != nil {
		return idea.Idea{}, err
	}

	createdAt, err := utils.ParseRFC3339(rec.CreatedAt)
	if err != nil {
		return idea.Idea{}, errors.NewUnknownError("invalid createdAt timestamp", err)
	}
	updatedAt, err := utils.ParseRFC3339(rec.UpdatedAt)
	if err != nil {
		return idea.Idea{}, errors.NewUnknownError("invalid updatedAt timestamp", err)
	}

	var reminder *time.Time
	if rec.ReminderDate != "" {
		t, err := utils.ParseRFC3339(rec.ReminderDate)
		if err != nil {
			return idea.Idea{}, errors.NewUnknownError("invalid reminderDate timestamp", err)
		}
		reminder = &t
	}

	resources := make([]idea.Resource, 0, len(rec.Resources))
	for _, res := range rec.Resources {
		resType, err := idea.ParseResourceType(res.Type)
		if err != nil {
			return idea.Idea{}, err
		}
		resCreated, err := utils.ParseRFC3339(res.CreatedAt)
		if err != nil {
			return idea.Idea{}, errors.NewUnknownError("invalid resource createdAt timestamp", err)
		}
		resources = append(resources, idea.Resource{
			ID:        res.ID,
			Type:      resType,
			Title:     res.Title,
			URL:       res.URL,
			Content:   res.Content,
			Preview:   res.Preview,
			CreatedAt: resCreated,
		})
	}

	return idea.Idea{
		ID:           rec.ID,
		Title:        rec.Title,
		Description:  rec.Description,
		Category:     category,
		Priority:     priority,
		Status:       status,
		Tags:         rec.Tags,
		Resources:    resources,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		ReminderDate: reminder,
	}, nil
}

func fromDomain(it idea.Idea) ideaRecord {
	rec := ideaRecord{
		ID:          it.ID,
		Title:       it.Title,
		Description: it.Description,
		Category:    string(it.Category),
		Priority:    string(it.Priority),
		Status:      string(it.Status),
		Tags:        it.Tags,
		CreatedAt:   utils.FormatRFC3339(it.CreatedAt),
		UpdatedAt:   utils.FormatRFC3339(it.UpdatedAt),
	}
	if it.ReminderDate != nil {
		rec.ReminderDate = utils.FormatRFC3339(*it.ReminderDate)
	}
	for _, res := range it.Resources {
		rec.Resources = append(rec.Resources, resourceRecord{
			ID:        res.ID,
			Type:      string(res.Type),
			Title:     res.Title,
			URL:       res.URL,
			Content:   res.Content,
			Preview:   res.Preview,
			CreatedAt: utils.FormatRFC3339(res.CreatedAt),
		})
	}
	return rec
}
