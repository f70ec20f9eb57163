package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/warehouse_pulse/backend/internal/models"
)

// queryBatchSize caps identifier lists passed to the mirror per query.
const queryBatchSize = 1000

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

// FetchPickLines returns the confirmed transfer-order lines for one day across
// both warehouses. Only delivery-bound lines whose destination bin equals the
// delivery id are real picks.
func (s *Store) FetchPickLines(ctx context.Context, date string) ([]models.WorkLine, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT lgnum, tanum, vbeln, COALESCE(vltyp,''), COALESCE(vlpla,''), COALESCE(nlpla,''),
			COALESCE(kober,''), COALESCE(qname,''), to_char(qdatu,'YYYY-MM-DD'), COALESCE(qzeit,''),
			confirmed_at, COALESCE(umrez,0), COALESCE(nista,0), COALESCE(brgew,0), COALESCE(volum,0)
		FROM ltap
		WHERE qdatu = $1::date
		  AND vbeln IS NOT NULL
		  AND nlpla IS NOT NULL
		  AND vbeln = nlpla
		  AND lgnum IN ('245','266')
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkLines(rows)
}

// FetchRoutes resolves delivery ids to route codes from the active linkage
// table unioned with the historical one. The first route seen per delivery
// wins, active rows first.
func (s *Store) FetchRoutes(ctx context.Context, deliveries []string) (map[string]string, error) {
	out := map[string]string{}
	for _, table := range []string{"hu_link", "hu_link_his"} {
		for _, chunk := range chunkStrings(deliveries, queryBatchSize) {
			rows, err := s.Pool.Query(ctx,
				`SELECT vbeln, COALESCE(route,'') FROM `+table+` WHERE vbeln = ANY($1)`, chunk)
			if err != nil {
				return nil, err
			}
			for rows.Next() {
				var vbeln, route string
				if err := rows.Scan(&vbeln, &route); err != nil {
					rows.Close()
					return nil, err
				}
				if _, ok := out[vbeln]; !ok {
					out[vbeln] = route
				}
			}
			if err := rows.Err(); err != nil {
				rows.Close()
				return nil, err
			}
			rows.Close()
		}
	}
	return out, nil
}

// FetchDeliveries returns open delivery headers for one warehouse and
// scenario ("today", "backlog", "future") relative to the target date, or the
// deliveries issued on the target date when scenario is "closed".
func (s *Store) FetchDeliveries(ctx context.Context, warehouse, scenario, date string) ([]models.Delivery, error) {
	var cond string
	switch scenario {
	case "backlog":
		cond = `wadat_ist IS NULL AND wadat < $2::date`
	case "future":
		cond = `wadat_ist IS NULL AND wadat > $2::date`
	case "closed":
		cond = `wadat_ist::date = $2::date`
	default:
		cond = `wadat_ist IS NULL AND wadat = $2::date`
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT vbeln, lgnum, COALESCE(route,''), COALESCE(lprio,''), COALESCE(wauhr,''),
			to_char(wadat,'YYYY-MM-DD'), wadat_ist, COALESCE(vstel,'')
		FROM likp
		WHERE lgnum = $1 AND `+cond, warehouse, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Delivery
	for rows.Next() {
		var d models.Delivery
		if err := rows.Scan(&d.ID, &d.Warehouse, &d.Route, &d.Priority, &d.Cutoff,
			&d.PlannedDate, &d.GoodsIssuedAt, &d.ShippingPoint); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// FetchLinesForDeliveries returns all transfer-order lines attached to the
// given deliveries, picked or not.
func (s *Store) FetchLinesForDeliveries(ctx context.Context, deliveries []string) ([]models.WorkLine, error) {
	var out []models.WorkLine
	for _, chunk := range chunkStrings(deliveries, queryBatchSize) {
		rows, err := s.Pool.Query(ctx, `
			SELECT lgnum, tanum, vbeln, COALESCE(vltyp,''), COALESCE(vlpla,''), COALESCE(nlpla,''),
				COALESCE(kober,''), COALESCE(qname,''), COALESCE(to_char(qdatu,'YYYY-MM-DD'),''), COALESCE(qzeit,''),
				confirmed_at, COALESCE(umrez,0), COALESCE(nista,0), COALESCE(brgew,0), COALESCE(volum,0)
			FROM ltap
			WHERE vbeln = ANY($1)
		`, chunk)
		if err != nil {
			return nil, err
		}
		lines, err := scanWorkLines(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, lines...)
	}
	return out, nil
}

// FetchHUsForDeliveries returns the handling units linked to the deliveries.
// Active and historical linkage are unioned; the first row per external unit
// id wins, active rows first.
func (s *Store) FetchHUsForDeliveries(ctx context.Context, deliveries []string) ([]models.HandlingUnit, error) {
	var out []models.HandlingUnit
	seen := map[string]bool{}
	for _, table := range []string{"hu_link", "hu_link_his"} {
		for _, chunk := range chunkStrings(deliveries, queryBatchSize) {
			rows, err := s.Pool.Query(ctx, `
				SELECT COALESCE(v.venum,''), l.exidv, l.vbeln, l.lgnum, COALESCE(v.tanum,''),
					COALESCE(l.vltyp,''), COALESCE(l.route,''), COALESCE(v.zexidvgrp,''), COALESCE(v.pickiniuser,'')
				FROM `+table+` l
				LEFT JOIN vekp v ON v.exidv = l.exidv
				WHERE l.vbeln = ANY($1)
			`, chunk)
			if err != nil {
				return nil, err
			}
			for rows.Next() {
				var h models.HandlingUnit
				if err := rows.Scan(&h.Internal, &h.External, &h.Delivery, &h.Warehouse,
					&h.TransferOrder, &h.StorageType, &h.Route, &h.GroupTag, &h.PickInitUser); err != nil {
					rows.Close()
					return nil, err
				}
				if seen[h.External] {
					continue
				}
				seen[h.External] = true
				out = append(out, h)
			}
			if err := rows.Err(); err != nil {
				rows.Close()
				return nil, err
			}
			rows.Close()
		}
	}
	return out, nil
}

// FetchPackEvents returns box-closing actions in the [from, to] date window.
// For MS the automated remote actor counts alongside the manual close
// transaction; CVNS only sees the manual one.
func (s *Store) FetchPackEvents(ctx context.Context, warehouse, fromDate, toDate string) ([]models.PackEvent, error) {
	action := `h.tcode = 'ZORF_BOX_CLOSING'`
	if warehouse == "245" {
		action = `(h.tcode = 'ZORF_BOX_CLOSING' OR h.username = 'WEBMREMOTEWS')`
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT h.objectid, h.username, to_char(h.udate,'YYYY-MM-DD'), COALESCE(h.utime,''), h.tcode,
			i.lgnum, COALESCE(i.vltyp,''), COALESCE(i.route,'')
		FROM cdhdr h
		JOIN vekp v ON v.venum = h.objectid
		JOIN (
			SELECT exidv, lgnum, vltyp, route FROM hu_link
			UNION
			SELECT exidv, lgnum, vltyp, route FROM hu_link_his
		) i ON i.exidv = v.exidv
		WHERE h.objectclas = 'HANDL_UNIT'
		  AND h.udate BETWEEN $2::date AND $3::date
		  AND i.lgnum = $1
		  AND `+action, warehouse, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPackEvents(rows)
}

// FetchPriorityGroups loads the unit priority-group lookup keyed by the
// padded internal unit number.
func (s *Store) FetchPriorityGroups(ctx context.Context) (map[string]string, error) {
	rows, err := s.Pool.Query(ctx, `SELECT venum, COALESCE(zexidvgrp,'') FROM hu_groups`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var venum, tag string
		if err := rows.Scan(&venum, &tag); err != nil {
			return nil, err
		}
		out[venum] = tag
	}
	return out, rows.Err()
}

// FetchUserPickLines returns one worker's confirmed lines since a date.
func (s *Store) FetchUserPickLines(ctx context.Context, worker, warehouse, since string) ([]models.WorkLine, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT lgnum, tanum, vbeln, COALESCE(vltyp,''), COALESCE(vlpla,''), COALESCE(nlpla,''),
			COALESCE(kober,''), COALESCE(qname,''), to_char(qdatu,'YYYY-MM-DD'), COALESCE(qzeit,''),
			confirmed_at, COALESCE(umrez,0), COALESCE(nista,0), COALESCE(brgew,0), COALESCE(volum,0)
		FROM ltap
		WHERE qname = $1
		  AND lgnum = $2
		  AND qdatu >= $3::date
		  AND vbeln IS NOT NULL
		  AND nlpla IS NOT NULL
		  AND vbeln = nlpla
	`, worker, warehouse, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkLines(rows)
}

// FetchUserPackEvents returns one worker's box-closing actions since a date.
func (s *Store) FetchUserPackEvents(ctx context.Context, worker, warehouse, since string) ([]models.PackEvent, error) {
	action := `h.tcode = 'ZORF_BOX_CLOSING'`
	if warehouse == "245" {
		action = `(h.tcode = 'ZORF_BOX_CLOSING' OR h.username = 'WEBMREMOTEWS')`
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT h.objectid, h.username, to_char(h.udate,'YYYY-MM-DD'), COALESCE(h.utime,''), h.tcode,
			i.lgnum, COALESCE(i.vltyp,''), COALESCE(i.route,'')
		FROM cdhdr h
		JOIN vekp v ON v.venum = h.objectid
		JOIN (
			SELECT exidv, lgnum, vltyp, route FROM hu_link
			UNION
			SELECT exidv, lgnum, vltyp, route FROM hu_link_his
		) i ON i.exidv = v.exidv
		WHERE h.objectclas = 'HANDL_UNIT'
		  AND h.username = $1
		  AND h.udate >= $3::date
		  AND i.lgnum = $2
		  AND `+action, worker, warehouse, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPackEvents(rows)
}

func (s *Store) CreateRun(ctx context.Context, status string) (string, error) {
	var id string
	err := s.Pool.QueryRow(ctx, `INSERT INTO runs (status, started_at) VALUES ($1, NOW()) RETURNING id`, status).Scan(&id)
	return id, err
}

func (s *Store) FinishRun(ctx context.Context, runID string, status string, summary []byte) error {
	_, err := s.Pool.Exec(ctx, `UPDATE runs SET status = $1, summary = $2, finished_at = NOW() WHERE id = $3`, status, summary, runID)
	return err
}

func (s *Store) GetLatestRun(ctx context.Context) (map[string]any, error) {
	row := s.Pool.QueryRow(ctx, `SELECT id, started_at, finished_at, status, summary FROM runs ORDER BY started_at DESC LIMIT 1`)
	var (
		id       string
		started  time.Time
		finished *time.Time
		status   string
		summary  []byte
	)
	if err := row.Scan(&id, &started, &finished, &status, &summary); err != nil {
		return nil, err
	}
	return map[string]any{
		"id":          id,
		"started_at":  started,
		"finished_at": finished,
		"status":      status,
		"summary":     summary,
	}, nil
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanWorkLines(rows pgxRows) ([]models.WorkLine, error) {
	var out []models.WorkLine
	for rows.Next() {
		var l models.WorkLine
		if err := rows.Scan(&l.Warehouse, &l.TransferOrder, &l.Delivery, &l.SourceType, &l.SourceBin,
			&l.DestBin, &l.PickArea, &l.Worker, &l.ConfirmDate, &l.ConfirmTime,
			&l.ConfirmedAt, &l.Items, &l.ActualQty, &l.Weight, &l.Volume); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanPackEvents(rows pgxRows) ([]models.PackEvent, error) {
	var out []models.PackEvent
	for rows.Next() {
		var e models.PackEvent
		if err := rows.Scan(&e.ObjectID, &e.Worker, &e.Date, &e.Time, &e.TCode,
			&e.Warehouse, &e.Storage, &e.Route); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func chunkStrings(values []string, size int) [][]string {
	if len(values) == 0 {
		return nil
	}
	var out [][]string
	for start := 0; start < len(values); start += size {
		end := start + size
		if end > len(values) {
			end = len(values)
		}
		out = append(out, values[start:end])
	}
	return out
}
