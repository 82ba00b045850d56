package postgres

import (
	"context"
	"errors"
	"fmt"

	"go-talent-marketplace/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type profileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

const profileColumns = `
	id, user_id,
	COALESCE(first_name, ''), COALESCE(last_name, ''), date_of_birth,
	COALESCE(nationality, ''), COALESCE(email, ''), COALESCE(phone, ''),
	COALESCE(address, ''), COALESCE(country, ''),
	COALESCE(profile_title, ''), COALESCE(professional_summary, ''),
	COALESCE(sector, ''), COALESCE(main_job, ''), COALESCE(years_of_experience, 0),
	cv_document_id, photo_document_id,
	status, last_step_completed, review_notes,
	created_at, updated_at`

func scanProfile(row pgx.Row, p *domain.CandidateProfile) error {
	return row.Scan(
		&p.ID, &p.UserID,
		&p.FirstName, &p.LastName, &p.DateOfBirth,
		&p.Nationality, &p.Email, &p.Phone,
		&p.Address, &p.Country,
		&p.ProfileTitle, &p.ProfessionalSummary,
		&p.Sector, &p.MainJob, &p.YearsOfExperience,
		&p.CVDocumentID, &p.PhotoDocumentID,
		&p.Status, &p.LastStepCompleted, &p.ReviewNotes,
		&p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *profileRepo) Create(ctx context.Context, userID, email string) (*domain.CandidateProfile, error) {
	query := `
		INSERT INTO candidate_profiles (user_id, email, status, last_step_completed, created_at, updated_at)
		VALUES ($1, $2, $3, 0, NOW(), NOW())
		RETURNING ` + profileColumns

	var p domain.CandidateProfile
	if err := scanProfile(r.db.QueryRow(ctx, query, userID, email, domain.StatusDraft), &p); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return &p, nil
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*domain.CandidateProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM candidate_profiles WHERE user_id = $1`

	var p domain.CandidateProfile
	err := scanProfile(r.db.QueryRow(ctx, query, userID), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) GetFull(ctx context.Context, userID string) (*domain.FullProfile, error) {
	profile, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, nil
	}

	result := &domain.FullProfile{
		Profile:        *profile,
		Experiences:    []domain.Experience{},
		Educations:     []domain.Education{},
		Certifications: []domain.Certification{},
		Skills:         []domain.Skill{},
	}

	// Child lists are re-read in insertion order so a save-then-load
	// round-trip preserves the order the client sent
	expQuery := `
		SELECT id, profile_id, company, position, COALESCE(sector, ''), COALESCE(contract_type, ''),
		       start_date, end_date, is_current, COALESCE(description, ''), achievements, document_id, created_at
		FROM experiences WHERE profile_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, expQuery, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch experiences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.Experience
		var achievements []string
		err := rows.Scan(
			&e.ID, &e.ProfileID, &e.Company, &e.Position, &e.Sector, &e.ContractType,
			&e.StartDate, &e.EndDate, &e.IsCurrent, &e.Description,
			pq.Array(&achievements), &e.DocumentID, &e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if achievements == nil {
			achievements = []string{}
		}
		e.Achievements = achievements
		result.Experiences = append(result.Experiences, e)
	}

	eduQuery := `
		SELECT id, profile_id, diploma, institution, COALESCE(country, ''),
		       start_year, graduation_year, COALESCE(level, ''), created_at
		FROM educations WHERE profile_id = $1 ORDER BY id`
	eduRows, err := r.db.Query(ctx, eduQuery, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch educations: %w", err)
	}
	defer eduRows.Close()

	for eduRows.Next() {
		var e domain.Education
		err := eduRows.Scan(
			&e.ID, &e.ProfileID, &e.Diploma, &e.Institution, &e.Country,
			&e.StartYear, &e.GraduationYear, &e.Level, &e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		result.Educations = append(result.Educations, e)
	}

	certQuery := `
		SELECT id, profile_id, title, issuer, year, expiration_date, verification_url, created_at
		FROM certifications WHERE profile_id = $1 ORDER BY id`
	certRows, err := r.db.Query(ctx, certQuery, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch certifications: %w", err)
	}
	defer certRows.Close()

	for certRows.Next() {
		var c domain.Certification
		err := certRows.Scan(
			&c.ID, &c.ProfileID, &c.Title, &c.Issuer, &c.Year,
			&c.ExpirationDate, &c.VerificationURL, &c.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		result.Certifications = append(result.Certifications, c)
	}

	// Ordered by insertion so the technical/soft/tool grouping survives
	skillQuery := `
		SELECT id, profile_id, name, skill_type, level, years_of_practice
		FROM skills WHERE profile_id = $1 ORDER BY id`
	skillRows, err := r.db.Query(ctx, skillQuery, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch skills: %w", err)
	}
	defer skillRows.Close()

	for skillRows.Next() {
		var s domain.Skill
		if err := skillRows.Scan(&s.ID, &s.ProfileID, &s.Name, &s.SkillType, &s.Level, &s.YearsOfPractice); err != nil {
			return nil, err
		}
		result.Skills = append(result.Skills, s)
	}

	prefQuery := `
		SELECT id, profile_id, desired_positions, contract_types, sectors,
		       COALESCE(desired_location, ''), COALESCE(mobility, ''), COALESCE(availability, ''),
		       salary_min, salary_max, updated_at
		FROM job_preferences WHERE profile_id = $1`
	var prefs domain.JobPreferences
	var positions, contracts, sectors []string
	err = r.db.QueryRow(ctx, prefQuery, profile.ID).Scan(
		&prefs.ID, &prefs.ProfileID,
		pq.Array(&positions), pq.Array(&contracts), pq.Array(&sectors),
		&prefs.DesiredLocation, &prefs.Mobility, &prefs.Availability,
		&prefs.SalaryMin, &prefs.SalaryMax, &prefs.UpdatedAt,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to fetch preferences: %w", err)
	}
	if err == nil {
		prefs.DesiredPositions = positions
		prefs.ContractTypes = contracts
		prefs.Sectors = sectors
		result.Preferences = &prefs
	}

	return result, nil
}

func (r *profileRepo) UpdateIdentity(ctx context.Context, userID string, upd *domain.ProfileUpdate) error {
	// COALESCE keeps the stored value for every nil field, giving the
	// identity step its partial-update semantics
	query := `
		UPDATE candidate_profiles SET
			first_name = COALESCE($2, first_name),
			last_name = COALESCE($3, last_name),
			date_of_birth = COALESCE($4, date_of_birth),
			nationality = COALESCE($5, nationality),
			email = COALESCE($6, email),
			phone = COALESCE($7, phone),
			address = COALESCE($8, address),
			country = COALESCE($9, country),
			profile_title = COALESCE($10, profile_title),
			professional_summary = COALESCE($11, professional_summary),
			sector = COALESCE($12, sector),
			main_job = COALESCE($13, main_job),
			years_of_experience = COALESCE($14, years_of_experience),
			cv_document_id = COALESCE($15, cv_document_id),
			photo_document_id = COALESCE($16, photo_document_id),
			updated_at = NOW()
		WHERE user_id = $1`

	cmdTag, err := r.db.Exec(ctx, query, userID,
		upd.FirstName, upd.LastName, upd.DateOfBirth, upd.Nationality,
		upd.Email, upd.Phone, upd.Address, upd.Country,
		upd.ProfileTitle, upd.ProfessionalSummary, upd.Sector, upd.MainJob,
		upd.YearsOfExperience, upd.CVDocumentID, upd.PhotoDocumentID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *profileRepo) AdvanceStep(ctx context.Context, userID string, completedThrough int) error {
	// GREATEST keeps the watermark monotonic: redoing an earlier step
	// never lowers it
	query := `
		UPDATE candidate_profiles
		SET last_step_completed = GREATEST(last_step_completed, $2), updated_at = NOW()
		WHERE user_id = $1`
	_, err := r.db.Exec(ctx, query, userID, completedThrough)
	if err != nil {
		return fmt.Errorf("failed to advance step: %w", err)
	}
	return nil
}

// ============================================================================
// Replace-set synchronization
//
// Each saved list fully replaces what is stored: delete all rows for the
// profile, then insert the new set in order, in one transaction.
// ============================================================================

func (r *profileRepo) ReplaceExperiences(ctx context.Context, profileID int64, items []domain.Experience) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM experiences WHERE profile_id = $1`, profileID); err != nil {
		return fmt.Errorf("failed to clear experiences: %w", err)
	}

	insert := `
		INSERT INTO experiences (
			profile_id, company, position, sector, contract_type,
			start_date, end_date, is_current, description, achievements, document_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())`

	for _, e := range items {
		_, err := tx.Exec(ctx, insert,
			profileID, e.Company, e.Position, e.Sector, e.ContractType,
			e.StartDate, e.EndDate, e.IsCurrent, e.Description,
			pq.Array(e.Achievements), e.DocumentID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert experience: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *profileRepo) ReplaceEducations(ctx context.Context, profileID int64, items []domain.Education) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM educations WHERE profile_id = $1`, profileID); err != nil {
		return fmt.Errorf("failed to clear educations: %w", err)
	}

	insert := `
		INSERT INTO educations (
			profile_id, diploma, institution, country, start_year, graduation_year, level, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`

	for _, e := range items {
		_, err := tx.Exec(ctx, insert,
			profileID, e.Diploma, e.Institution, e.Country, e.StartYear, e.GraduationYear, e.Level,
		)
		if err != nil {
			return fmt.Errorf("failed to insert education: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *profileRepo) ReplaceCertifications(ctx context.Context, profileID int64, items []domain.Certification) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM certifications WHERE profile_id = $1`, profileID); err != nil {
		return fmt.Errorf("failed to clear certifications: %w", err)
	}

	insert := `
		INSERT INTO certifications (
			profile_id, title, issuer, year, expiration_date, verification_url, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())`

	for _, c := range items {
		_, err := tx.Exec(ctx, insert,
			profileID, c.Title, c.Issuer, c.Year, c.ExpirationDate, c.VerificationURL,
		)
		if err != nil {
			return fmt.Errorf("failed to insert certification: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *profileRepo) ReplaceSkills(ctx context.Context, profileID int64, items []domain.Skill) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM skills WHERE profile_id = $1`, profileID); err != nil {
		return fmt.Errorf("failed to clear skills: %w", err)
	}

	insert := `
		INSERT INTO skills (profile_id, name, skill_type, level, years_of_practice)
		VALUES ($1, $2, $3, $4, $5)`

	for _, s := range items {
		_, err := tx.Exec(ctx, insert, profileID, s.Name, s.SkillType, s.Level, s.YearsOfPractice)
		if err != nil {
			return fmt.Errorf("failed to insert skill %s: %w", s.Name, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *profileRepo) UpsertPreferences(ctx context.Context, profileID int64, prefs *domain.JobPreferences) error {
	query := `
		INSERT INTO job_preferences (
			profile_id, desired_positions, contract_types, sectors,
			desired_location, mobility, availability, salary_min, salary_max, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (profile_id) DO UPDATE SET
			desired_positions = EXCLUDED.desired_positions,
			contract_types = EXCLUDED.contract_types,
			sectors = EXCLUDED.sectors,
			desired_location = EXCLUDED.desired_location,
			mobility = EXCLUDED.mobility,
			availability = EXCLUDED.availability,
			salary_min = EXCLUDED.salary_min,
			salary_max = EXCLUDED.salary_max,
			updated_at = NOW()`

	_, err := r.db.Exec(ctx, query,
		profileID, pq.Array(prefs.DesiredPositions), pq.Array(prefs.ContractTypes), pq.Array(prefs.Sectors),
		prefs.DesiredLocation, prefs.Mobility, prefs.Availability, prefs.SalaryMin, prefs.SalaryMax,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert preferences: %w", err)
	}
	return nil
}

func (r *profileRepo) UpdateStatus(ctx context.Context, userID string, status domain.ProfileStatus, notes *string) error {
	query := `
		UPDATE candidate_profiles
		SET status = $2, review_notes = COALESCE($3, review_notes), updated_at = NOW()
		WHERE user_id = $1`
	cmdTag, err := r.db.Exec(ctx, query, userID, status, notes)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *profileRepo) ListByStatus(ctx context.Context, status domain.ProfileStatus, limit, offset int) ([]domain.CandidateProfile, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + profileColumns + `
		FROM candidate_profiles WHERE status = $1
		ORDER BY updated_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := []domain.CandidateProfile{}
	for rows.Next() {
		var p domain.CandidateProfile
		if err := scanProfile(rows, &p); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
