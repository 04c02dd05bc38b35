package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/studybot/internal/database"
	"github.com/example/studybot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines the materials import configuration
type ImportConfig struct {
	FilePath    string // Path to the Excel or CSV file
	NameColumn  int    // Column with the file/document name (0-based)
	TopicColumn int    // Column with the topic name
	PagesColumn int    // Column with the total page count
	PathColumn  int    // Column with the storage path
	SheetName   string // Name of the sheet to import
	StartRow    int    // The row to start importing from (1-based)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig(path string) ImportConfig {
	return ImportConfig{
		FilePath:    path,
		NameColumn:  0,
		TopicColumn: 1,
		PagesColumn: 2,
		PathColumn:  3,
		SheetName:   "Sheet1",
		StartRow:    2, // skip the header row
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	TopicsCreated  int
	Created        int
	Updated        int
	Errors         []string
}

// Importer loads study materials (topics and files) from spreadsheets
type Importer struct {
	topics *database.TopicRepository
	files  *database.FileRepository
}

// NewImporter creates a new importer
func NewImporter(topics *database.TopicRepository, files *database.FileRepository) *Importer {
	return &Importer{topics: topics, files: files}
}

// ImportMaterials imports study materials from an Excel or CSV file
func (im *Importer) ImportMaterials(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return im.importFromCSV(ctx, config)
	}
	return im.importFromExcel(ctx, config)
}

// importFromExcel imports materials from an Excel file
func (im *Importer) importFromExcel(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	known, err := im.knownTopics(ctx)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++
		if err := im.processRow(ctx, row, config, known, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}
	return result, nil
}

// importFromCSV imports materials from a CSV file
func (im *Importer) importFromCSV(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	known, err := im.knownTopics(ctx)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}
		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		result.TotalProcessed++
		if err := im.processRow(ctx, row, config, known, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}
	return result, nil
}

// knownTopics loads the lowercased names of existing topics once per
// import run. processRow adds newly created topics to the set.
func (im *Importer) knownTopics(ctx context.Context) (map[string]bool, error) {
	existing, err := im.topics.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load topics: %v", err)
	}
	known := make(map[string]bool, len(existing))
	for _, t := range existing {
		known[strings.ToLower(t.Name)] = true
	}
	return known, nil
}

// processRow imports a single spreadsheet row
func (im *Importer) processRow(ctx context.Context, row []string, config ImportConfig, known map[string]bool, result *ImportResult) error {
	name := cell(row, config.NameColumn)
	topicName := cell(row, config.TopicColumn)
	if name == "" {
		return fmt.Errorf("missing file name")
	}
	if topicName == "" {
		topicName = "General"
	}

	pages := 0
	if raw := cell(row, config.PagesColumn); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid page count %q", raw)
		}
		pages = p
	}

	topic, err := im.topics.GetOrCreate(ctx, topicName, "")
	if err != nil {
		return err
	}
	if key := strings.ToLower(topicName); !known[key] {
		known[key] = true
		result.TopicsCreated++
	}

	existing, err := im.files.GetByNameAndTopic(ctx, name, topic.ID)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return err
	}

	if existing != nil {
		existing.TotalPages = pages
		if path := cell(row, config.PathColumn); path != "" {
			existing.Path = path
		}
		if err := im.files.Update(ctx, existing); err != nil {
			return err
		}
		result.Updated++
		return nil
	}

	file := &models.StudyFile{
		Name:       name,
		Path:       cell(row, config.PathColumn),
		TopicID:    topic.ID,
		TotalPages: pages,
	}
	if err := im.files.Create(ctx, file); err != nil {
		return err
	}
	result.Created++
	return nil
}

// cell returns a trimmed cell value, tolerating short rows
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
