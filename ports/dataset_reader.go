package ports

import (
	"genml/domain/genml"
)

// DatasetReader loads an estimation dataset from an external source such as
// a spreadsheet. Readers validate structure (aligned lengths, binary
// treatment) before handing the dataset to the pipeline.
type DatasetReader interface {
	ReadDataset() (genml.Dataset, error)
}
