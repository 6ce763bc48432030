// Package store persists generated papers in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pavelanni/mockpaper/internal/model"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS papers (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		client_id TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		level TEXT NOT NULL,
		paper_type TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		topics TEXT NOT NULL,
		num_questions INTEGER NOT NULL,
		total_marks INTEGER NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		result TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_papers_created_at ON papers(created_at);

	CREATE TABLE IF NOT EXISTS store_metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return s.SetMetadata("schema_version", schemaVersion)
}

// SavePaper stores a generated paper and returns it with its ID, title and
// creation time filled in.
func (s *Store) SavePaper(clientID string, cfg model.ExamConfig, result model.GenerationResult) (*model.Paper, error) {
	topics, err := json.Marshal(cfg.Topics)
	if err != nil {
		return nil, fmt.Errorf("encode topics: %w", err)
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}

	p := &model.Paper{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		ClientID:  clientID,
		Title:     paperTitle(result),
		Config:    cfg,
		Result:    result,
	}
	_, err = s.db.Exec(
		`INSERT INTO papers (id, created_at, client_id, title, level, paper_type, difficulty,
			topics, num_questions, total_marks, notes, result)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.CreatedAt, p.ClientID, p.Title, cfg.Level, cfg.PaperType, cfg.Difficulty,
		string(topics), int(cfg.NumQuestions), int(cfg.TotalMarks), cfg.AdditionalNotes, string(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("insert paper: %w", err)
	}
	return p, nil
}

// paperTitle returns the exam's title, or "" when the document has none or
// cannot be decoded.
func paperTitle(result model.GenerationResult) string {
	exam, _, err := result.Documents()
	if err != nil {
		return ""
	}
	return exam.Title
}

const paperColumns = `id, created_at, client_id, title, level, paper_type, difficulty,
	topics, num_questions, total_marks, notes, result`

// GetPaper returns a stored paper by ID, or nil if none exists.
func (s *Store) GetPaper(id string) (*model.Paper, error) {
	row := s.db.QueryRow(`SELECT `+paperColumns+` FROM papers WHERE id = ?`, id)
	p, err := scanPaper(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPapers returns summaries of the most recent papers, newest first. A
// limit of zero or less returns every paper.
func (s *Store) ListPapers(limit int) ([]model.PaperSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		`SELECT id, created_at, title, level, paper_type, difficulty, num_questions, total_marks
		 FROM papers ORDER BY created_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var papers []model.PaperSummary
	for rows.Next() {
		var p model.PaperSummary
		if err := rows.Scan(&p.ID, &p.CreatedAt, &p.Title, &p.Level, &p.PaperType, &p.Difficulty, &p.NumQuestions, &p.TotalMarks); err != nil {
			return nil, err
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// PaperCount returns the number of stored papers.
func (s *Store) PaperCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM papers`).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPaper(row rowScanner) (*model.Paper, error) {
	var (
		p                model.Paper
		topics, result   string
		numQ, totalMarks int
	)
	err := row.Scan(&p.ID, &p.CreatedAt, &p.ClientID, &p.Title, &p.Config.Level, &p.Config.PaperType,
		&p.Config.Difficulty, &topics, &numQ, &totalMarks, &p.Config.AdditionalNotes, &result)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(topics), &p.Config.Topics); err != nil {
		return nil, fmt.Errorf("decode topics of paper %s: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(result), &p.Result); err != nil {
		return nil, fmt.Errorf("decode result of paper %s: %w", p.ID, err)
	}
	p.Config.NumQuestions = model.Count(numQ)
	p.Config.TotalMarks = model.Count(totalMarks)
	return &p, nil
}
