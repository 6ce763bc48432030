package store

import (
	"fmt"
	"time"

	"github.com/pavelanni/mockpaper/internal/model"
)

// ExportPapers returns every stored paper, oldest first, wrapped for export.
func (s *Store) ExportPapers() (*model.PaperExport, error) {
	rows, err := s.db.Query(`SELECT ` + paperColumns + ` FROM papers ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}
	defer rows.Close()

	papers := []model.Paper{}
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &model.PaperExport{
		ExportedAt: time.Now().UTC(),
		Count:      len(papers),
		Papers:     papers,
	}, nil
}
