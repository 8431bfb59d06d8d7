package storage

import (
	"encoding/json"
	"errors"

	"knapsackga/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

// Stamp sets the current schema and codec versions on a record.
func Stamp(record model.RunRecord) model.RunRecord {
	record.VersionedRecord = model.VersionedRecord{
		SchemaVersion: CurrentSchemaVersion,
		CodecVersion:  CurrentCodecVersion,
	}
	return record
}

func EncodeRun(record model.RunRecord) ([]byte, error) {
	if err := checkVersion(record.VersionedRecord); err != nil {
		return nil, err
	}
	return json.Marshal(record)
}

func DecodeRun(data []byte) (model.RunRecord, error) {
	var record model.RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.RunRecord{}, err
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return record, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}

func cloneRun(record model.RunRecord) model.RunRecord {
	record.Items = append([]model.Item(nil), record.Items...)
	record.BestGenome = append(model.Genome(nil), record.BestGenome...)
	record.BestItems = append([]string(nil), record.BestItems...)
	record.BestByGeneration = append([]int(nil), record.BestByGeneration...)
	record.Diagnostics = append([]model.GenerationDiagnostics(nil), record.Diagnostics...)
	return record
}
