package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/meetkit/interviewd/session"
)

// whiteboardBox is the bounding box the whiteboard image is scaled into.
const whiteboardBox = 400

// Page description fed to pdfcpu's create-from-JSON API.
type pdfDocument struct {
	Paper  string             `json:"paper"`
	Origin string             `json:"origin"`
	Pages  map[string]pdfPage `json:"pages"`
}

type pdfPage struct {
	Content pdfContent `json:"content"`
}

type pdfContent struct {
	Text  []pdfTextBox  `json:"text,omitempty"`
	Image []pdfImageBox `json:"image,omitempty"`
}

type pdfFont struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type pdfTextBox struct {
	Value     string     `json:"value"`
	Anchor    string     `json:"anchor,omitempty"`
	Position  [2]float64 `json:"position,omitempty"`
	Width     float64    `json:"width,omitempty"`
	Font      *pdfFont   `json:"font,omitempty"`
	Alignment string     `json:"alignment,omitempty"`
}

type pdfImageBox struct {
	Src    string `json:"src"`
	Anchor string `json:"anchor,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// BuildPDF renders the export document: a title page, one text page and one
// whiteboard page per snapshot in list order, and a closing page. Returns
// the PDF bytes and the page count (2N+2 for N snapshots).
func BuildPDF(roomID string, snaps []session.Snapshot) ([]byte, int, error) {
	tmpDir, err := os.MkdirTemp("", "interviewd-export-")
	if err != nil {
		return nil, 0, fmt.Errorf("export: temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	doc := pdfDocument{
		Paper:  "A4",
		Origin: "upperLeft",
		Pages:  make(map[string]pdfPage),
	}

	pageNr := 1
	doc.Pages[strconv.Itoa(pageNr)] = titlePage(roomID)
	pageNr++

	for i, snap := range snaps {
		doc.Pages[strconv.Itoa(pageNr)] = snapshotTextPage(snap)
		pageNr++

		imgPage, err := whiteboardPage(tmpDir, i, snap)
		if err != nil {
			return nil, 0, err
		}
		doc.Pages[strconv.Itoa(pageNr)] = imgPage
		pageNr++
	}

	doc.Pages[strconv.Itoa(pageNr)] = closingPage()

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, 0, fmt.Errorf("export: marshal document: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	var buf bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(payload), &buf, conf); err != nil {
		return nil, 0, fmt.Errorf("export: pdfcpu create: %w", err)
	}
	return buf.Bytes(), pageNr, nil
}

// PageCount reads the page count of a generated artifact. Used by callers
// that report document size and by tests.
func PageCount(pdf []byte) (int, error) {
	return api.PageCount(bytes.NewReader(pdf), model.NewDefaultConfiguration())
}

func titlePage(roomID string) pdfPage {
	return pdfPage{Content: pdfContent{
		Text: []pdfTextBox{{
			Value:     "Interview Session\n" + roomID,
			Anchor:    "center",
			Font:      &pdfFont{Name: "Helvetica-Bold", Size: 24},
			Alignment: "center",
		}},
	}}
}

func snapshotTextPage(snap session.Snapshot) pdfPage {
	const margin = 50
	return pdfPage{Content: pdfContent{
		Text: []pdfTextBox{
			{
				Value:    "Question:",
				Position: [2]float64{margin, 60},
				Font:     &pdfFont{Name: "Helvetica-Bold", Size: 14},
			},
			{
				Value:    snap.Question,
				Position: [2]float64{margin, 85},
				Width:    495,
				Font:     &pdfFont{Name: "Helvetica", Size: 11},
			},
			{
				Value:    "Notes:",
				Position: [2]float64{margin, 260},
				Font:     &pdfFont{Name: "Helvetica-Bold", Size: 14},
			},
			{
				Value:    snap.Notes,
				Position: [2]float64{margin, 285},
				Width:    495,
				Font:     &pdfFont{Name: "Helvetica", Size: 11},
			},
			{
				Value:    "Code:",
				Position: [2]float64{margin, 460},
				Font:     &pdfFont{Name: "Helvetica-Bold", Size: 14},
			},
			{
				Value:    snap.Code,
				Position: [2]float64{margin, 485},
				Width:    495,
				Font:     &pdfFont{Name: "Courier", Size: 10},
			},
		},
	}}
}

func whiteboardPage(tmpDir string, idx int, snap session.Snapshot) (pdfPage, error) {
	content := pdfContent{
		Text: []pdfTextBox{{
			Value:     snap.Question,
			Position:  [2]float64{50, 60},
			Width:     495,
			Font:      &pdfFont{Name: "Helvetica", Size: 12},
			Alignment: "center",
		}},
	}

	if len(snap.Whiteboard) > 0 {
		src := filepath.Join(tmpDir, fmt.Sprintf("whiteboard_%03d.png", idx))
		if err := os.WriteFile(src, snap.Whiteboard, 0o644); err != nil {
			return pdfPage{}, fmt.Errorf("export: write whiteboard image: %w", err)
		}
		content.Image = []pdfImageBox{{
			Src:    src,
			Anchor: "center",
			Width:  whiteboardBox,
			Height: whiteboardBox,
		}}
	} else {
		content.Text = append(content.Text, pdfTextBox{
			Value:    "(no whiteboard capture)",
			Anchor:   "center",
			Font:     &pdfFont{Name: "Helvetica", Size: 11},
		})
	}

	return pdfPage{Content: content}, nil
}

func closingPage() pdfPage {
	return pdfPage{Content: pdfContent{
		Text: []pdfTextBox{{
			Value:     "End of Interview Document",
			Anchor:    "center",
			Font:      &pdfFont{Name: "Helvetica-Bold", Size: 20},
			Alignment: "center",
		}},
	}}
}
