package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"assessly-backend/internal/model"
	"assessly-backend/internal/repository"
)

const (
	exportPageSize = 500
	gamesSheet     = "Games"
)

type ExportService interface {
	GamePDF(ctx context.Context, id uint) ([]byte, error)
	GamesXLSX(ctx context.Context, f repository.GameFilter) ([]byte, error)
}

type exportService struct {
	games repository.GameRepository
}

func NewExportService(games repository.GameRepository) ExportService {
	return &exportService{games: games}
}

// GamePDF renders the scores and every attached report of one game.
func (s *exportService) GamePDF(ctx context.Context, id uint) ([]byte, error) {
	rec, err := s.games.Get(ctx, id)
	if err != nil {
		return nil, translateRepoErr(err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Assessment report "+rec.Code, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr("Assessment report"))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, tr(fmt.Sprintf("Access code: %s", rec.Code)))
	pdf.Ln(7)
	pdf.Cell(0, 7, tr(fmt.Sprintf("Completed: %s", rec.CompletedAt.Format("02 Jan 2006 15:04"))))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(120, 8, "Competency", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Score", "1", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	for _, c := range model.Categories {
		pdf.CellFormat(120, 8, tr(c.Name()), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%d", rec.Score(c)), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	for _, c := range model.Categories {
		r, ok := rec.Report(c)
		if !ok {
			continue
		}
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 9, tr(fmt.Sprintf("%s: %s", c.Name(), r.Report.Title)))
		pdf.Ln(10)
		for _, sec := range []struct{ title, body string }{
			{"Strengths", r.Report.Strengths},
			{"Development areas", r.Report.DevelopmentAreas},
			{"Interview questions", r.Report.InterviewQuestions},
			{"Suggestions", r.Report.Suggestions},
		} {
			if strings.TrimSpace(sec.body) == "" {
				continue
			}
			pdf.SetFont("Arial", "B", 11)
			pdf.Cell(0, 7, sec.title)
			pdf.Ln(7)
			pdf.SetFont("Arial", "", 10)
			pdf.MultiCell(0, 5, tr(sec.body), "", "L", false)
			pdf.Ln(3)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// GamesXLSX writes every game matching f to a single sheet.
func (s *exportService) GamesXLSX(ctx context.Context, f repository.GameFilter) ([]byte, error) {
	x := excelize.NewFile()
	defer x.Close()
	if err := x.SetSheetName("Sheet1", gamesSheet); err != nil {
		return nil, err
	}

	header := []interface{}{"ID", "Code", "Company ID", "Completed At"}
	for _, c := range model.Categories {
		header = append(header, c.Name())
	}
	header = append(header, "Reports")
	if err := x.SetSheetRow(gamesSheet, "A1", &header); err != nil {
		return nil, err
	}

	row := 2
	for page := 1; ; page++ {
		res, err := s.games.List(ctx, f, repository.ListParams{Page: page, PageSize: exportPageSize})
		if err != nil {
			return nil, err
		}
		for _, g := range res.Items {
			cells := []interface{}{g.ID, g.Code, g.CompanyID, g.CompletedAt.Format("2006-01-02 15:04:05")}
			for _, c := range model.Categories {
				cells = append(cells, g.Score(c))
			}
			titles := make([]string, 0, len(g.Reports))
			for _, r := range g.Reports {
				titles = append(titles, fmt.Sprintf("%s: %s", r.Category, r.Report.Title))
			}
			cells = append(cells, strings.Join(titles, "; "))

			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return nil, err
			}
			if err := x.SetSheetRow(gamesSheet, cell, &cells); err != nil {
				return nil, err
			}
			row++
		}
		if len(res.Items) < exportPageSize {
			break
		}
	}

	buf, err := x.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
