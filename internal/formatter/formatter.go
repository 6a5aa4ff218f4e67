// package formatter provides functions to export catalog snapshot data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/desertthunder/catalogctl/internal/models"
	"github.com/desertthunder/catalogctl/internal/shared"
)

// SnapshotExport bundles the local snapshot rows selected for export.
type SnapshotExport struct {
	Label   string
	TakenAt time.Time
	Tracks  []*models.PersistedTrack
	Artists []*models.PersistedArtist
	Albums  []*models.PersistedAlbum
}

// TracksToCSV converts snapshot tracks to CSV with columns: RemoteID, Name, Artist, Album, Duration, Popularity, ISRC, Explicit
func TracksToCSV(tracks []*models.PersistedTrack) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"RemoteID", "Name", "Artist", "Album", "Duration", "Popularity", "ISRC", "Explicit"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			strconv.FormatInt(track.RemoteID(), 10),
			track.Name(),
			track.Artist(),
			track.Album(),
			shared.FormatDuration(track.DurationMS()),
			strconv.Itoa(track.Popularity()),
			track.ISRC(),
			strconv.FormatBool(track.Explicit()),
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

// ArtistsToCSV converts snapshot artists to CSV with columns: RemoteID, Name, Description, Popularity
func ArtistsToCSV(artists []*models.PersistedArtist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"RemoteID", "Name", "Description", "Popularity"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, artist := range artists {
		record := []string{
			strconv.FormatInt(artist.RemoteID(), 10),
			artist.Name(),
			artist.Description(),
			strconv.Itoa(artist.Popularity()),
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

// AlbumsToCSV converts snapshot albums to CSV with columns: RemoteID, Name, Type, ReleaseDate, Popularity
func AlbumsToCSV(albums []*models.PersistedAlbum) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"RemoteID", "Name", "Type", "ReleaseDate", "Popularity"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, album := range albums {
		record := []string{
			strconv.FormatInt(album.RemoteID(), 10),
			album.Name(),
			album.AlbumType(),
			album.ReleaseDate(),
			strconv.Itoa(album.Popularity()),
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

// ToMarkdown converts a snapshot export to Markdown with per-section track, artist, and album listings
func ToMarkdown(export *SnapshotExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Label))
	buf.WriteString(fmt.Sprintf("**Taken**: %s\n", export.TakenAt.Format(time.RFC3339)))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d | **Artists**: %d | **Albums**: %d\n\n",
		len(export.Tracks), len(export.Artists), len(export.Albums)))

	if len(export.Tracks) > 0 {
		buf.WriteString("## Tracks\n\n")
		for i, track := range export.Tracks {
			duration := shared.FormatDuration(track.DurationMS())
			albumPart := ""
			if track.Album() != "" {
				albumPart = fmt.Sprintf(" (%s)", track.Album())
			}
			buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, track.Artist(), track.Name(), albumPart, duration))
		}
		buf.WriteString("\n")
	}

	if len(export.Artists) > 0 {
		buf.WriteString("## Artists\n\n")
		for i, artist := range export.Artists {
			buf.WriteString(fmt.Sprintf("%d. %s (popularity %d)\n", i+1, artist.Name(), artist.Popularity()))
		}
		buf.WriteString("\n")
	}

	if len(export.Albums) > 0 {
		buf.WriteString("## Albums\n\n")
		for i, album := range export.Albums {
			datePart := ""
			if album.ReleaseDate() != "" {
				datePart = fmt.Sprintf(", %s", album.ReleaseDate())
			}
			buf.WriteString(fmt.Sprintf("%d. %s (%s%s)\n", i+1, album.Name(), album.AlbumType(), datePart))
		}
	}

	return buf.Bytes(), nil
}

// ToText converts a snapshot export to plain text
func ToText(export *SnapshotExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Snapshot: %s\n", export.Label))
	buf.WriteString(fmt.Sprintf("Taken: %s\n", export.TakenAt.Format(time.RFC3339)))
	buf.WriteString(fmt.Sprintf("Tracks: %d, Artists: %d, Albums: %d\n\n",
		len(export.Tracks), len(export.Artists), len(export.Albums)))

	for i, track := range export.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artist(), track.Name()))
	}

	return buf.Bytes(), nil
}

type trackRecord struct {
	RemoteID   int64  `json:"remoteId"`
	Name       string `json:"name"`
	Artist     string `json:"artist,omitempty"`
	Album      string `json:"album,omitempty"`
	DurationMS int    `json:"durationMs,omitempty"`
	Popularity int    `json:"popularity,omitempty"`
	ISRC       string `json:"isrc,omitempty"`
	Explicit   bool   `json:"explicit,omitempty"`
}

type artistRecord struct {
	RemoteID    int64  `json:"remoteId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Popularity  int    `json:"popularity,omitempty"`
}

type albumRecord struct {
	RemoteID    int64  `json:"remoteId"`
	Name        string `json:"name"`
	AlbumType   string `json:"albumType,omitempty"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	Popularity  int    `json:"popularity,omitempty"`
}

type jsonExport struct {
	Label   string         `json:"label"`
	TakenAt time.Time      `json:"takenAt"`
	Tracks  []trackRecord  `json:"tracks"`
	Artists []artistRecord `json:"artists"`
	Albums  []albumRecord  `json:"albums"`
}

// ToJSON converts a snapshot export to indented JSON.
func ToJSON(export *SnapshotExport) ([]byte, error) {
	out := jsonExport{
		Label:   export.Label,
		TakenAt: export.TakenAt,
		Tracks:  make([]trackRecord, 0, len(export.Tracks)),
		Artists: make([]artistRecord, 0, len(export.Artists)),
		Albums:  make([]albumRecord, 0, len(export.Albums)),
	}

	for _, track := range export.Tracks {
		out.Tracks = append(out.Tracks, trackRecord{
			RemoteID:   track.RemoteID(),
			Name:       track.Name(),
			Artist:     track.Artist(),
			Album:      track.Album(),
			DurationMS: track.DurationMS(),
			Popularity: track.Popularity(),
			ISRC:       track.ISRC(),
			Explicit:   track.Explicit(),
		})
	}
	for _, artist := range export.Artists {
		out.Artists = append(out.Artists, artistRecord{
			RemoteID:    artist.RemoteID(),
			Name:        artist.Name(),
			Description: artist.Description(),
			Popularity:  artist.Popularity(),
		})
	}
	for _, album := range export.Albums {
		out.Albums = append(out.Albums, albumRecord{
			RemoteID:    album.RemoteID(),
			Name:        album.Name(),
			AlbumType:   album.AlbumType(),
			ReleaseDate: album.ReleaseDate(),
			Popularity:  album.Popularity(),
		})
	}

	return shared.MarshalJSON(out, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile  string
	ArtistsFile string
	AlbumsFile  string
}

// WriteCSVExport writes one CSV per entity kind under the given base path.
//
// Creates {base}_tracks.csv, {base}_artists.csv, and {base}_albums.csv.
func WriteCSVExport(export *SnapshotExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.Label
	}

	result := &CSVExportResult{}

	tracksData, err := TracksToCSV(export.Tracks)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tracks CSV: %w", err)
	}
	result.TracksFile = baseFilepath + "_tracks.csv"
	if err := os.WriteFile(result.TracksFile, tracksData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write tracks CSV: %w", err)
	}

	artistsData, err := ArtistsToCSV(export.Artists)
	if err != nil {
		return nil, fmt.Errorf("failed to generate artists CSV: %w", err)
	}
	result.ArtistsFile = baseFilepath + "_artists.csv"
	if err := os.WriteFile(result.ArtistsFile, artistsData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write artists CSV: %w", err)
	}

	albumsData, err := AlbumsToCSV(export.Albums)
	if err != nil {
		return nil, fmt.Errorf("failed to generate albums CSV: %w", err)
	}
	result.AlbumsFile = baseFilepath + "_albums.csv"
	if err := os.WriteFile(result.AlbumsFile, albumsData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write albums CSV: %w", err)
	}

	return result, nil
}

// WriteMarkdownExport writes the snapshot as a single Markdown file and returns its path.
func WriteMarkdownExport(export *SnapshotExport, path string) (string, error) {
	data, err := ToMarkdown(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}
	return path, nil
}

// WriteTextExport writes the snapshot as a plain text file and returns its path.
func WriteTextExport(export *SnapshotExport, path string) (string, error) {
	data, err := ToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text export: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}
	return path, nil
}

// WriteManifest writes an export manifest as indented JSON.
func WriteManifest(manifest any, path string) error {
	data, err := shared.MarshalJSON(manifest, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
