package concurrent

import (
	"github.com/roundel-labs/tubegraph/pkg/datastructure"
)

type SaveStationJobItem struct {
	KeyStr string
	ValArr []datastructure.KVStation
}

func NewSaveStationJobItem(keyStr string, valArr []datastructure.KVStation) SaveStationJobItem {
	return SaveStationJobItem{
		KeyStr: keyStr,
		ValArr: valArr,
	}
}

type JourneyQueryParam struct {
	FromStationID int32
	ToStationID   int32
}

func NewJourneyQueryParam(fromStationID, toStationID int32) JourneyQueryParam {
	return JourneyQueryParam{
		FromStationID: fromStationID,
		ToStationID:   toStationID,
	}
}

type JobI interface {
	[]int32 | SaveStationJobItem | JourneyQueryParam
}

type Job[T JobI] struct {
	ID      int
	JobItem T
}

type JobFunc[T JobI, G any] func(job T) G
