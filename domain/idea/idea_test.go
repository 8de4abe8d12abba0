package idea

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaflow-backend/pkg/errors"
)

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("blog-topics")
	require.NoError(t, err)
	assert.Equal(t, CategoryBlogTopics, c)

	_, err = ParseCategory("BLOG-TOPICS")
	require.Error(t, err)
	assert.True(t, errors.IsUnknown(err))

	_, err = ParseCategory("")
	assert.Error(t, err)
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority("medium")
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, p)

	_, err = ParsePriority("urgent")
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("in-progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, s)

	_, err = ParseStatus("done")
	assert.Error(t, err)
}

func TestParseResourceType(t *testing.T) {
	rt, err := ParseResourceType("note")
	require.NoError(t, err)
	assert.Equal(t, ResourceNote, rt)

	_, err = ParseResourceType("video")
	assert.Error(t, err)
}

func TestInputValidate(t *testing.T) {
	valid := Input{
		Title:    "Something",
		Category: CategoryOther,
		Priority: PriorityLow,
	}
	assert.NoError(t, valid.Validate())

	badCategory := valid
	badCategory.Category = "nope"
	assert.Error(t, badCategory.Validate())

	badResource := valid
	badResource.Resources = []Resource{{Type: "video", Title: "clip"}}
	assert.Error(t, badResource.Validate())
}

func TestPatchValidate(t *testing.T) {
	status := StatusCompleted
	assert.NoError(t, Patch{Status: &status}.Validate())

	bad := Status("done")
	err := Patch{Status: &bad}.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestPatchEmpty(t *testing.T) {
	assert.True(t, Patch{}.Empty())

	title := "t"
	assert.False(t, Patch{Title: &title}.Empty())
}

func TestPatchApply_PartialUpdatePreservesOtherFields(t *testing.T) {
	original := Idea{
		ID:          "1",
		Title:       "Original title",
		Description: "Original description",
		Category:    CategoryProjectIdeas,
		Priority:    PriorityHigh,
		Status:      StatusNew,
		Tags:        []string{"keep"},
	}

	status := StatusCompleted
	updated := original
	Patch{Status: &status}.Apply(&updated)

	assert.Equal(t, StatusCompleted, updated.Status)
	assert.Equal(t, original.Title, updated.Title)
	assert.Equal(t, original.Description, updated.Description)
	assert.Equal(t, original.Category, updated.Category)
	assert.Equal(t, original.Priority, updated.Priority)
	assert.Equal(t, original.Tags, updated.Tags)
}

func TestPatchApply_ResourcesFullyReplaced(t *testing.T) {
	target := Idea{
		Resources: []Resource{
			{ID: "r1", Type: ResourceLink, Title: "old", URL: "https://old.example"},
			{ID: "r2", Type: ResourceNote, Title: "scratch", Content: "text"},
		},
	}

	replacement := []Resource{{ID: "r3", Type: ResourceFile, Title: "doc"}}
	Patch{Resources: &replacement}.Apply(&target)

	require.Len(t, target.Resources, 1)
	assert.Equal(t, "r3", target.Resources[0].ID)
}
