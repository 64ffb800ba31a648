package projections

import (
	"context"

	"wellness/internal/domain/athlete"
	"wellness/internal/domain/catalog"
	"wellness/internal/domain/wellness"
)

// RecordLogRecordStore defines the record store interface needed by the
// record log projection.
type RecordLogRecordStore interface {
	ListByPartition(ctx context.Context, partition string) ([]wellness.Record, error)
}

// RecordLogAthleteStore defines the athlete store interface needed by
// the record log projection.
type RecordLogAthleteStore interface {
	List(ctx context.Context) ([]athlete.Athlete, error)
}

// RecordLogCatalogStore defines the catalog store interface needed by
// the record log projection.
type RecordLogCatalogStore interface {
	NamesByCatalog(ctx context.Context, name string) (map[int]string, error)
}

// GetRecordLogQuery carries input for the record log projection.
type GetRecordLogQuery struct {
	ActorRole string // picks the data partition
}

// GetRecordLogDeps holds dependencies for the record log projection.
type GetRecordLogDeps struct {
	RecordStore  RecordLogRecordStore
	AthleteStore RecordLogAthleteStore
	CatalogStore RecordLogCatalogStore
}

// RecordLogEntry is one record hydrated for display.
type RecordLogEntry struct {
	Record        wellness.Record
	AthleteName   string
	PainZoneNames []string
	SegmentName   string
	LoadTypeName  string
	RehabTypeName string
	ConditionName string
}

// RecordLogResult carries the output of the record log projection.
type RecordLogResult struct {
	Partition string
	Entries   []RecordLogEntry
}

// QueryGetRecordLog lists the actor partition's non-deleted records,
// newest first, with athlete names and catalog ids resolved to labels.
// An id missing from its catalog renders as an empty label rather than
// failing the whole log.
func QueryGetRecordLog(ctx context.Context, query GetRecordLogQuery, deps GetRecordLogDeps) (RecordLogResult, error) {
	partition := wellness.PartitionForRole(query.ActorRole)

	records, err := deps.RecordStore.ListByPartition(ctx, partition)
	if err != nil {
		return RecordLogResult{}, err
	}

	athletes, err := deps.AthleteStore.List(ctx)
	if err != nil {
		return RecordLogResult{}, err
	}
	names := make(map[string]string, len(athletes))
	for _, a := range athletes {
		names[a.ID] = a.FullName()
	}

	lookups := make(map[string]map[int]string)
	for _, name := range []string{catalog.PainZone, catalog.PainSegment, catalog.LoadType, catalog.RehabType, catalog.Condition} {
		lookup, err := deps.CatalogStore.NamesByCatalog(ctx, name)
		if err != nil {
			return RecordLogResult{}, err
		}
		lookups[name] = lookup
	}

	entries := make([]RecordLogEntry, 0, len(records))
	for _, r := range records {
		entry := RecordLogEntry{
			Record:        r,
			AthleteName:   names[r.AthleteID],
			SegmentName:   lookups[catalog.PainSegment][r.PainSegmentID],
			LoadTypeName:  lookups[catalog.LoadType][r.LoadTypeID],
			RehabTypeName: lookups[catalog.RehabType][r.RehabTypeID],
			ConditionName: lookups[catalog.Condition][r.ConditionID],
		}
		for _, zone := range r.PainZones {
			if label, ok := lookups[catalog.PainZone][zone]; ok {
				entry.PainZoneNames = append(entry.PainZoneNames, label)
			}
		}
		entries = append(entries, entry)
	}

	return RecordLogResult{Partition: partition, Entries: entries}, nil
}
