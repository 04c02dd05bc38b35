package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/studybot/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestImporter(t *testing.T) (*Importer, *database.FileRepository, *database.TopicRepository) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite3", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	topics := database.NewTopicRepository(db)
	files := database.NewFileRepository(db)
	return NewImporter(topics, files), files, topics
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "materials.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImportMaterialsFromCSV(t *testing.T) {
	importer, files, topics := newTestImporter(t)
	ctx := context.Background()

	path := writeCSV(t, "Name,Topic,Pages,Path\n"+
		"Linear Algebra,Math,300,/books/la.pdf\n"+
		"Mechanics,Physics,250,/books/mech.pdf\n"+
		"Calculus,Math,400,\n")

	result, err := importer.ImportMaterials(ctx, DefaultImportConfig(path))
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, 3, result.Created)
	assert.Equal(t, 2, result.TopicsCreated)
	assert.Empty(t, result.Errors)

	all, err := files.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	allTopics, err := topics.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, allTopics, 2)
}

func TestImportMaterialsUpdatesExistingFiles(t *testing.T) {
	importer, files, _ := newTestImporter(t)
	ctx := context.Background()

	first := writeCSV(t, "Name,Topic,Pages,Path\nRome,History,100,\n")
	result, err := importer.ImportMaterials(ctx, DefaultImportConfig(first))
	require.NoError(t, err)
	require.Equal(t, 1, result.Created)

	// Re-import with a corrected page count
	second := writeCSV(t, "Name,Topic,Pages,Path\nRome,History,120,/books/rome.pdf\n")
	result, err = importer.ImportMaterials(ctx, DefaultImportConfig(second))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Updated)

	all, err := files.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 120, all[0].TotalPages)
	assert.Equal(t, "/books/rome.pdf", all[0].Path)
}

func TestImportMaterialsCollectsRowErrors(t *testing.T) {
	importer, files, _ := newTestImporter(t)
	ctx := context.Background()

	path := writeCSV(t, "Name,Topic,Pages,Path\n"+
		",Math,100,\n"+
		"Good Book,Math,not-a-number,\n"+
		"Fine Book,Math,50,\n")

	result, err := importer.ImportMaterials(ctx, DefaultImportConfig(path))
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, 1, result.Created)
	assert.Len(t, result.Errors, 2)

	all, err := files.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestImportMaterialsCountsOnlyNewTopics(t *testing.T) {
	importer, _, topics := newTestImporter(t)
	ctx := context.Background()

	_, err := topics.GetOrCreate(ctx, "Math", "")
	require.NoError(t, err)

	// Math already exists; Physics appears twice but is new
	path := writeCSV(t, "Name,Topic,Pages,Path\n"+
		"Algebra,Math,100,\n"+
		"Mechanics,Physics,200,\n"+
		"Optics,Physics,150,\n")

	result, err := importer.ImportMaterials(ctx, DefaultImportConfig(path))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Created)
	assert.Equal(t, 1, result.TopicsCreated)
}

func TestImportMaterialsDefaultsTopic(t *testing.T) {
	importer, _, topics := newTestImporter(t)
	ctx := context.Background()

	path := writeCSV(t, "Name,Topic,Pages,Path\nOrphan Book,,10,\n")
	result, err := importer.ImportMaterials(ctx, DefaultImportConfig(path))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	all, err := topics.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "General", all[0].Name)
}

func TestImportMaterialsMissingFile(t *testing.T) {
	importer, _, _ := newTestImporter(t)

	_, err := importer.ImportMaterials(context.Background(), DefaultImportConfig("/nonexistent/file.csv"))
	assert.Error(t, err)
}
