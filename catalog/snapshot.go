package catalog

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/rushteam/reckit-movies/core"
)

// DefaultSnapshotKey 是目录快照在 Store 中的默认 key。
const DefaultSnapshotKey = "catalog:snapshot"

// Snapshot 是目录的持久化形态，由外部数据加载器产出（原始数据文件的解析不在本包范围内）。
type Snapshot struct {
	Movies  []core.Movie  `json:"movies"`
	Ratings []core.Rating `json:"ratings"`
	Images  []Image       `json:"images,omitempty"`
}

// Image 是一条海报记录。
type Image struct {
	MovieID int64  `json:"item_id"`
	URL     string `json:"image"`
}

// Build 把快照构建为只读目录。
func (s *Snapshot) Build(opts ...Option) *Catalog {
	images := make(map[int64]string, len(s.Images))
	for _, img := range s.Images {
		if _, ok := images[img.MovieID]; !ok {
			images[img.MovieID] = img.URL
		}
	}
	return New(s.Movies, s.Ratings, images, opts...)
}

// DecodeSnapshot 解析 JSON 快照。
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput,
			fmt.Sprintf("catalog: decode snapshot: %v", err))
	}
	if len(snap.Movies) == 0 {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput,
			"catalog: snapshot has no movies")
	}
	return &snap, nil
}

// LoadSnapshotFile 从本地文件读取快照。
func LoadSnapshotFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return DecodeSnapshot(data)
}

// EncodeSnapshot 序列化快照，与 DecodeSnapshot 对应。
func EncodeSnapshot(snap *Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}
