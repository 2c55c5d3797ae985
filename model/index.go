package model

import (
	"fmt"

	"github.com/rushteam/reckit-movies/core"
)

// IndexMap 是目录电影 ID 与模型内部连续索引之间的双向映射。
// 内部索引即 rawIDs 的下标。
type IndexMap struct {
	rawIDs []int64
	inner  map[int64]int
}

// NewIndexMap 按训练集中的顺序构造映射，重复 ID 返回错误。
func NewIndexMap(rawIDs []int64) (*IndexMap, error) {
	m := &IndexMap{
		rawIDs: append([]int64(nil), rawIDs...),
		inner:  make(map[int64]int, len(rawIDs)),
	}
	for i, id := range rawIDs {
		if _, dup := m.inner[id]; dup {
			return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
				fmt.Sprintf("model: duplicate raw id %d at index %d", id, i))
		}
		m.inner[id] = i
	}
	return m, nil
}

func (m *IndexMap) ToInner(rawID int64) (int, bool) {
	i, ok := m.inner[rawID]
	return i, ok
}

func (m *IndexMap) ToRaw(inner int) (int64, bool) {
	if inner < 0 || inner >= len(m.rawIDs) {
		return 0, false
	}
	return m.rawIDs[inner], true
}

func (m *IndexMap) Len() int { return len(m.rawIDs) }

// RawIDs 返回训练集电影 ID 的拷贝，按内部索引排列。
func (m *IndexMap) RawIDs() []int64 {
	return append([]int64(nil), m.rawIDs...)
}

var _ core.IndexMapper = (*IndexMap)(nil)
