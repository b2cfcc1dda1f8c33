package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"machinaka-be/internal/model"
	"machinaka-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// encounterRow is the persisted shape of an Encounter. Location is stored as
// jsonb so the optional address/place fields travel with the coordinates.
type encounterRow struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID1        string         `gorm:"type:varchar(64);not null;index:idx_encounters_user1_detected,priority:1"`
	UserID2        string         `gorm:"type:varchar(64);not null;index:idx_encounters_user2_detected,priority:1"`
	Location       datatypes.JSON `gorm:"type:jsonb;not null"`
	DetectedAt     time.Time      `gorm:"not null;index:idx_encounters_user1_detected,priority:2;index:idx_encounters_user2_detected,priority:2"`
	DistanceMeters float64        `gorm:"not null"`
	IsMatched      bool           `gorm:"not null;default:false"`
}

func (encounterRow) TableName() string { return "encounters" }

func toRow(e *model.Encounter) (*encounterRow, error) {
	loc, err := json.Marshal(e.Location)
	if err != nil {
		return nil, err
	}
	return &encounterRow{
		ID:             e.ID,
		UserID1:        e.UserID1,
		UserID2:        e.UserID2,
		Location:       datatypes.JSON(loc),
		DetectedAt:     e.DetectedAt,
		DistanceMeters: e.DistanceMeters,
		IsMatched:      e.IsMatched,
	}, nil
}

func (row *encounterRow) toModel() (model.Encounter, error) {
	var loc model.GeoPoint
	if err := json.Unmarshal(row.Location, &loc); err != nil {
		return model.Encounter{}, err
	}
	return model.Encounter{
		ID:             row.ID,
		UserID1:        row.UserID1,
		UserID2:        row.UserID2,
		Location:       loc,
		DetectedAt:     row.DetectedAt,
		DistanceMeters: row.DistanceMeters,
		IsMatched:      row.IsMatched,
	}, nil
}

// EncounterRepository is the Postgres-backed encounter log. There is no
// delete path: the table is append-plus-one-flag by construction.
type EncounterRepository struct {
	db *gorm.DB
}

func NewEncounterRepository(db *gorm.DB) *EncounterRepository {
	return &EncounterRepository{db: db}
}

func (r *EncounterRepository) Append(ctx context.Context, encounter *model.Encounter) error {
	row, err := toRow(encounter)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *EncounterRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Encounter, error) {
	var row encounterRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, contract.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EncounterRepository) HistoryByUser(ctx context.Context, userID string, limit, offset int) ([]model.Encounter, int64, error) {
	scope := r.db.WithContext(ctx).Model(&encounterRow{}).
		Where("user_id1 = ? OR user_id2 = ?", userID, userID)

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []encounterRow
	err := scope.Order("detected_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]model.Encounter, 0, len(rows))
	for i := range rows {
		e, err := rows[i].toModel()
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, nil
}

func (r *EncounterRepository) MarkMatched(ctx context.Context, id uuid.UUID) (*model.Encounter, error) {
	res := r.db.WithContext(ctx).Model(&encounterRow{}).
		Where("id = ?", id).
		Update("is_matched", true)
	if res.Error != nil {
		return nil, res.Error
	}
	// RowsAffected is 0 both for a missing row and an already-matched one;
	// FindByID settles which it was.
	return r.FindByID(ctx, id)
}
