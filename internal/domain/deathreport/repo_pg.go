package deathreport

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flourish/flourish-prn/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const reportCols = `id, subject_identifier, report_datetime, death_date,
	cause, cause_other, perform_autopsy, death_cause,
	cause_category, cause_category_other, illness_duration,
	medical_responsibility, participant_hospitalized,
	reason_hospitalized, reason_hospitalized_other, days_hospitalized,
	comment, consent_version, created_by, created_at, updated_at`

func (r *repoPG) scanRow(row pgx.Row) (*DeathReport, error) {
	var (
		rep                                 DeathReport
		cause, autopsy, category, med, hosp string
		causeOther, categoryOther           *string
		reason, reasonOther, createdBy      *string
	)
	err := row.Scan(&rep.ID, &rep.SubjectIdentifier, &rep.ReportDatetime, &rep.DeathDate,
		&cause, &causeOther, &autopsy, &rep.DeathCause,
		&category, &categoryOther, &rep.IllnessDuration,
		&med, &hosp,
		&reason, &reasonOther, &rep.DaysHospitalized,
		&rep.Comment, &rep.ConsentVersion, &createdBy, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return nil, db.NotFound(err)
	}
	rep.CreatedBy = deref(createdBy)

	choices := []struct {
		dst   *Choice
		list  *ChoiceList
		code  string
		other *string
	}{
		{&rep.Cause, SourceOfDeathInfo, cause, causeOther},
		{&rep.PerformAutopsy, YesNo, autopsy, nil},
		{&rep.CauseCategory, CauseOfDeathCategory, category, categoryOther},
		{&rep.MedicalResponsibility, MedicalResponsibility, med, nil},
		{&rep.ParticipantHospitalized, YesNo, hosp, nil},
		{&rep.ReasonHospitalized, HospitalizationReasons, deref(reason), reasonOther},
	}
	for _, c := range choices {
		v, err := c.list.Parse(c.code, deref(c.other))
		if err != nil {
			return nil, fmt.Errorf("death report %s: %w", rep.ID, err)
		}
		*c.dst = v
	}
	return &rep, nil
}

func (r *repoPG) Create(ctx context.Context, rep *DeathReport) error {
	if rep.ID == uuid.Nil {
		rep.ID = uuid.New()
	}
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO death_report (id, subject_identifier, report_datetime, death_date,
			cause, cause_other, perform_autopsy, death_cause,
			cause_category, cause_category_other, illness_duration,
			medical_responsibility, participant_hospitalized,
			reason_hospitalized, reason_hospitalized_other, days_hospitalized,
			comment, consent_version, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		RETURNING created_at, updated_at`,
		rep.ID, rep.SubjectIdentifier, rep.ReportDatetime, rep.DeathDate,
		rep.Cause.Code(), rep.Cause.ptrOther(), rep.PerformAutopsy.Code(), rep.DeathCause,
		rep.CauseCategory.Code(), rep.CauseCategory.ptrOther(), rep.IllnessDuration,
		rep.MedicalResponsibility.Code(), rep.ParticipantHospitalized.Code(),
		rep.ReasonHospitalized.ptrCode(), rep.ReasonHospitalized.ptrOther(), rep.DaysHospitalized,
		rep.Comment, rep.ConsentVersion, optional(rep.CreatedBy),
	).Scan(&rep.CreatedAt, &rep.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return ErrDuplicateReport
	}
	if err != nil {
		return fmt.Errorf("insert death report: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*DeathReport, error) {
	return r.scanRow(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+reportCols+` FROM death_report WHERE id = $1`, id))
}

func (r *repoPG) GetBySubject(ctx context.Context, subjectIdentifier string) (*DeathReport, error) {
	return r.scanRow(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+reportCols+` FROM death_report WHERE subject_identifier = $1`, subjectIdentifier))
}

func (r *repoPG) Update(ctx context.Context, rep *DeathReport) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE death_report SET subject_identifier=$2, report_datetime=$3, death_date=$4,
			cause=$5, cause_other=$6, perform_autopsy=$7, death_cause=$8,
			cause_category=$9, cause_category_other=$10, illness_duration=$11,
			medical_responsibility=$12, participant_hospitalized=$13,
			reason_hospitalized=$14, reason_hospitalized_other=$15, days_hospitalized=$16,
			comment=$17, consent_version=$18, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		rep.ID, rep.SubjectIdentifier, rep.ReportDatetime, rep.DeathDate,
		rep.Cause.Code(), rep.Cause.ptrOther(), rep.PerformAutopsy.Code(), rep.DeathCause,
		rep.CauseCategory.Code(), rep.CauseCategory.ptrOther(), rep.IllnessDuration,
		rep.MedicalResponsibility.Code(), rep.ParticipantHospitalized.Code(),
		rep.ReasonHospitalized.ptrCode(), rep.ReasonHospitalized.ptrOther(), rep.DaysHospitalized,
		rep.Comment, rep.ConsentVersion,
	).Scan(&rep.CreatedAt, &rep.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return ErrDuplicateReport
	}
	if err != nil {
		return fmt.Errorf("update death report %s: %w", rep.ID, db.NotFound(err))
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM death_report WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete death report %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*DeathReport, int, error) {
	q := db.Conn(ctx, r.pool)
	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM death_report`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count death reports: %w", err)
	}
	rows, err := q.Query(ctx, `SELECT `+reportCols+` FROM death_report
		ORDER BY report_datetime DESC, subject_identifier LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list death reports: %w", err)
	}
	defer rows.Close()
	var items []*DeathReport
	for rows.Next() {
		rep, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rep)
	}
	return items, total, rows.Err()
}
