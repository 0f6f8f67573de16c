// README: Quote store backed by PostgreSQL.
package quote

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shipcalc/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, q *Quote) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO quotes (
            id, parent_id,
            length_cm, breadth_cm, height_cm,
            volumetric_weight, actual_weight, chargeable_weight,
            service_type, zone, delivery_days,
            base_amount, fuel_surcharge, subtotal, gst, total,
            currency, rate_table_version, origin_pincode, destination_pincode,
            generated_at, valid_until
        ) VALUES (
            $1::text::uuid, $2::text::uuid,
            $3, $4, $5,
            $6, $7, $8,
            $9, $10, $11,
            $12, $13, $14, $15, $16,
            $17, $18, $19, $20,
            $21, $22
        )`,
		string(q.ID), toStringPtr(q.ParentID),
		q.Dimensions.Length, q.Dimensions.Breadth, q.Dimensions.Height,
		q.VolumetricWeight, q.ActualWeight, q.ChargeableWeight,
		q.ServiceType, q.Zone, q.DeliveryDays,
		q.Breakdown.BaseAmount, q.Breakdown.FuelSurcharge, q.Breakdown.Subtotal, q.Breakdown.GST, q.Breakdown.Total,
		q.Currency, q.RateTableVersion, nullIfEmpty(q.OriginPincode), nullIfEmpty(q.DestinationPincode),
		q.GeneratedAt, q.ValidUntil,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Quote, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id::text, parent_id::text,
               length_cm, breadth_cm, height_cm,
               volumetric_weight, actual_weight, chargeable_weight,
               service_type, zone, delivery_days,
               base_amount, fuel_surcharge, subtotal, gst, total,
               currency, rate_table_version, origin_pincode, destination_pincode,
               generated_at, valid_until
        FROM quotes
        WHERE id = $1::text::uuid`, string(id),
	)

	var q Quote
	var parentID, origin, dest *string
	err := row.Scan(
		&q.ID, &parentID,
		&q.Dimensions.Length, &q.Dimensions.Breadth, &q.Dimensions.Height,
		&q.VolumetricWeight, &q.ActualWeight, &q.ChargeableWeight,
		&q.ServiceType, &q.Zone, &q.DeliveryDays,
		&q.Breakdown.BaseAmount, &q.Breakdown.FuelSurcharge, &q.Breakdown.Subtotal, &q.Breakdown.GST, &q.Breakdown.Total,
		&q.Currency, &q.RateTableVersion, &origin, &dest,
		&q.GeneratedAt, &q.ValidUntil,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrQuoteNotFound
	}
	if err != nil {
		return nil, err
	}

	if parentID != nil {
		p := types.ID(*parentID)
		q.ParentID = &p
	}
	if origin != nil {
		q.OriginPincode = *origin
	}
	if dest != nil {
		q.DestinationPincode = *dest
	}
	q.Breakdown.Zone = q.Zone
	q.Breakdown.Service = q.ServiceType
	q.Breakdown.DeliveryDays = q.DeliveryDays
	q.GeneratedAt = q.GeneratedAt.UTC()
	q.ValidUntil = q.ValidUntil.UTC()
	return &q, nil
}

func toStringPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func nullIfEmpty(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
