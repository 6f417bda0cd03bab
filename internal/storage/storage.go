package storage

import "poolCore/internal/model"

// Storage defines a sink for applied operation records.
type Storage interface {
	PutOperationBatch(ops []model.AppliedOperation) error
}
