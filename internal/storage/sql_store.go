package storage

import (
	"context"
	"database/sql"
	"errors"

	"tripbuilder/internal/model"
)

// snippetColumns is the select list shared by every snippet query; the scan
// order in scanSnippet must match it.
const snippetColumns = `snippet_id, page_id, code, request_desc, destination,
	image, imagetitle, tagline1, tagline2, price, title, shortdesc,
	description, inclusionhtml, active`

// SQLStore implements Store over a database/sql handle. Statements use $N
// placeholders in strictly increasing first-occurrence order, which binds
// identically under the pgx and modernc sqlite drivers.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore wraps an already-open database handle. The caller owns the
// handle and its lifetime.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Open opens and verifies a database connection. A failure here is a
// connection-kind error, as opposed to the query-kind errors the store
// methods produce.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, &OpError{Op: "open database", Kind: KindConnection, Err: err}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &OpError{Op: "connect to database", Kind: KindConnection, Err: err}
	}
	return db, nil
}

func (s *SQLStore) PageByName(ctx context.Context, name string) (*model.Page, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT page_id, page_name, page_desc FROM trip_page WHERE page_name = $1`, name)

	p, err := scanPage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPageNotFound
		}
		return nil, &OpError{Op: "page lookup", Kind: KindQuery, Err: err}
	}
	return p, nil
}

func (s *SQLStore) PageByID(ctx context.Context, id int64) (*model.Page, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT page_id, page_name, page_desc FROM trip_page WHERE page_id = $1`, id)

	p, err := scanPage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPageNotFound
		}
		return nil, &OpError{Op: "page lookup", Kind: KindQuery, Err: err}
	}
	return p, nil
}

func (s *SQLStore) Pages(ctx context.Context) ([]model.Page, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT page_id, page_name, page_desc FROM trip_page ORDER BY page_id`)
	if err != nil {
		return nil, &OpError{Op: "list pages", Kind: KindQuery, Err: err}
	}
	defer rows.Close()

	var pages []model.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, &OpError{Op: "list pages", Kind: KindQuery, Err: err}
		}
		pages = append(pages, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, &OpError{Op: "list pages", Kind: KindQuery, Err: err}
	}
	return pages, nil
}

func (s *SQLStore) SnippetsByPage(ctx context.Context, pageID int64) ([]model.Snippet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+snippetColumns+` FROM trip_snippet WHERE page_id = $1 ORDER BY snippet_id`, pageID)
	if err != nil {
		return nil, &OpError{Op: "list snippets", Kind: KindQuery, Err: err}
	}
	defer rows.Close()

	var snippets []model.Snippet
	for rows.Next() {
		sn, err := scanSnippet(rows)
		if err != nil {
			return nil, &OpError{Op: "list snippets", Kind: KindQuery, Err: err}
		}
		snippets = append(snippets, *sn)
	}
	if err := rows.Err(); err != nil {
		return nil, &OpError{Op: "list snippets", Kind: KindQuery, Err: err}
	}
	return snippets, nil
}

func (s *SQLStore) SnippetByID(ctx context.Context, id int64) (*model.Snippet, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+snippetColumns+` FROM trip_snippet WHERE snippet_id = $1`, id)

	sn, err := scanSnippet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnippetNotFound
		}
		return nil, &OpError{Op: "snippet lookup", Kind: KindQuery, Err: err}
	}
	return sn, nil
}

func (s *SQLStore) InsertPage(ctx context.Context, p *model.Page) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trip_page (page_id, page_name, page_desc) VALUES ($1, $2, $3)`,
		p.ID, p.Name, nullable(p.Description))
	if err != nil {
		return &OpError{Op: "insert page", Kind: KindQuery, Err: err}
	}
	return nil
}

func (s *SQLStore) UpdatePage(ctx context.Context, p *model.Page) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE trip_page SET page_name = $1, page_desc = $2 WHERE page_id = $3`,
		p.Name, nullable(p.Description), p.ID)
	if err != nil {
		return &OpError{Op: "update page", Kind: KindQuery, Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrPageNotFound
	}
	return nil
}

func (s *SQLStore) InsertSnippet(ctx context.Context, sn *model.Snippet) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trip_snippet (
			snippet_id, page_id, code, request_desc, destination, image,
			imagetitle, tagline1, tagline2, price, title, shortdesc,
			description, inclusionhtml, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		sn.ID, sn.PageID, nullable(sn.Code), nullable(sn.RequestDesc),
		nullable(sn.Destination), nullable(sn.Image), nullable(sn.ImageTitle),
		nullable(sn.Tagline1), nullable(sn.Tagline2), nullable(sn.Price),
		nullable(sn.Title), nullable(sn.ShortDesc), nullable(sn.Description),
		nullable(sn.InclusionHTML), nullable(sn.Active))
	if err != nil {
		return &OpError{Op: "insert snippet", Kind: KindQuery, Err: err}
	}
	return nil
}

func (s *SQLStore) UpdateSnippet(ctx context.Context, sn *model.Snippet) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE trip_snippet SET
			code = $1, request_desc = $2, destination = $3, image = $4,
			imagetitle = $5, tagline1 = $6, tagline2 = $7, price = $8,
			title = $9, shortdesc = $10, description = $11,
			inclusionhtml = $12, active = $13
		WHERE snippet_id = $14`,
		nullable(sn.Code), nullable(sn.RequestDesc), nullable(sn.Destination),
		nullable(sn.Image), nullable(sn.ImageTitle), nullable(sn.Tagline1),
		nullable(sn.Tagline2), nullable(sn.Price), nullable(sn.Title),
		nullable(sn.ShortDesc), nullable(sn.Description),
		nullable(sn.InclusionHTML), nullable(sn.Active), sn.ID)
	if err != nil {
		return &OpError{Op: "update snippet", Kind: KindQuery, Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSnippetNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPage(sc scanner) (*model.Page, error) {
	var p model.Page
	var desc sql.NullString
	if err := sc.Scan(&p.ID, &p.Name, &desc); err != nil {
		return nil, err
	}
	p.Description = desc.String
	return &p, nil
}

func scanSnippet(sc scanner) (*model.Snippet, error) {
	var sn model.Snippet
	var code, reqDesc, dest, image, imageTitle, tag1, tag2 sql.NullString
	var price, title, shortDesc, desc, inclusion, active sql.NullString
	err := sc.Scan(&sn.ID, &sn.PageID, &code, &reqDesc, &dest, &image,
		&imageTitle, &tag1, &tag2, &price, &title, &shortDesc, &desc,
		&inclusion, &active)
	if err != nil {
		return nil, err
	}
	sn.Code = code.String
	sn.RequestDesc = reqDesc.String
	sn.Destination = dest.String
	sn.Image = image.String
	sn.ImageTitle = imageTitle.String
	sn.Tagline1 = tag1.String
	sn.Tagline2 = tag2.String
	sn.Price = price.String
	sn.Title = title.String
	sn.ShortDesc = shortDesc.String
	sn.Description = desc.String
	sn.InclusionHTML = inclusion.String
	sn.Active = active.String
	return &sn, nil
}

// nullable stores empty strings as NULL, matching how the original editor
// normalized blank form fields.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
