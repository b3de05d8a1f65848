// package formatter provides functions to export history and wardrobe data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mirelvt/vfit/internal/api"
	"github.com/mirelvt/vfit/internal/history"
	"github.com/mirelvt/vfit/internal/services"
	"github.com/mirelvt/vfit/internal/shared"
)

var nowFunc = time.Now

// HistoryToCSV converts history entries to CSV format with columns: Session, Completed, Result Image, Notes
func HistoryToCSV(entries []history.Entry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Session", "Completed", "Result Image", "Notes"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range entries {
		record := []string{
			entry.ID,
			entry.Timestamp,
			entry.ResultImage,
			entry.Text,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WardrobeToCSV converts wardrobe items to CSV format with columns: ID, Name, Category, Color, Description, Image URL
func WardrobeToCSV(items []services.WardrobeItem) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Category", "Color", "Description", "Image URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range items {
		record := []string{
			item.ID,
			item.Name,
			item.Category,
			item.Color,
			item.Description,
			item.ImageURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// HistoryToMarkdown converts history entries to a Markdown report.
//
// images maps a session ID to a local image filename; sessions without an
// entry render their remote URL instead.
func HistoryToMarkdown(entries []history.Entry, images map[string]string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Try-On History\n\n")
	buf.WriteString(fmt.Sprintf("**Sessions**: %d\n\n", len(entries)))

	for i, entry := range entries {
		buf.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, entry.Timestamp))

		image := entry.ResultImage
		if local, ok := images[entry.ID]; ok {
			image = local
		}
		if image != "" {
			buf.WriteString(fmt.Sprintf("![Result](%s)\n\n", image))
		}

		if entry.Text != "" {
			buf.WriteString(entry.Text + "\n\n")
		}
	}

	return buf.Bytes(), nil
}

// HistoryToText converts history entries to plain text format
func HistoryToText(entries []history.Entry) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Try-on sessions: %d\n\n", len(entries)))

	for i, entry := range entries {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, entry.Timestamp, entry.ResultImage))
		if entry.Text != "" {
			buf.WriteString("   " + entry.Text + "\n")
		}
	}

	return buf.Bytes(), nil
}

// CSVExportResult contains the paths of files created by WriteHistoryCSVExport
type CSVExportResult struct {
	EntriesFile  string
	MetadataFile string
}

// WriteHistoryCSVExport exports history to CSV format with an accompanying metadata JSON file.
//
// Creates {base}_history.csv and {base}_metadata.json
func WriteHistoryCSVExport(entries []history.Entry, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "tryon"
	}

	csvData, err := HistoryToCSV(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	entriesFile := baseFilepath + "_history.csv"
	if err := os.WriteFile(entriesFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadata := map[string]any{
		"sessions":    len(entries),
		"exported_at": shared.FormatTimestamp(nowFunc()),
	}
	metadataJSON, err := shared.MarshalJSON(metadata, true)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		EntriesFile:  entriesFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownReport
type MarkdownExportResult struct {
	Directory string
	Files     []string
	Images    int
}

// WriteMarkdownReport exports history to a Markdown report in a dedicated directory.
//
// Result images are downloaded through the client into the directory; a
// failed download keeps the remote URL in the report rather than failing
// the whole export.
func WriteMarkdownReport(ctx context.Context, client *api.Client, entries []history.Entry, outputDir string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "tryon-report"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	images := map[string]string{}
	for i, entry := range entries {
		if entry.ResultImage == "" || client == nil {
			continue
		}

		data, err := client.Download(ctx, entry.ResultImage)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download result image: %v\n", err)
			continue
		}

		filename := "result-" + strconv.Itoa(i+1) + ".png"
		path := outputDir + "/" + filename
		if err := os.WriteFile(path, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save result image: %v\n", err)
			continue
		}

		images[entry.ID] = filename
		result.Files = append(result.Files, path)
		result.Images++
	}

	mdData, err := HistoryToMarkdown(entries, images)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := outputDir + "/README.md"
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports history to plain text format.
//
// Defaults to tryon_history.txt as the filename.
func WriteTextExport(entries []history.Entry, filepath string) (string, error) {
	if filepath == "" {
		filepath = "tryon_history.txt"
	}

	textData, err := HistoryToText(entries)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
