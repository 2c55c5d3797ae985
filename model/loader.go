package model

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// 模型产物在 Store 中的默认 key。
const (
	DefaultKNNKey = "model:knn"
	DefaultSVDKey = "model:svd"
)

// KNNArtifact 是 KNN 模型的持久化形态。
type KNNArtifact struct {
	RawIDs []int64     `json:"raw_ids"`
	Sim    [][]float64 `json:"sim"`
}

// SVDArtifact 是 SVD 模型的持久化形态。
type SVDArtifact struct {
	RawIDs []int64     `json:"raw_ids"`
	Qi     [][]float64 `json:"qi"`
}

func DecodeKNN(data []byte) (*KNN, error) {
	var a KNNArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, invalidArtifact("knn: decode: %v", err)
	}
	return NewKNN(a.RawIDs, a.Sim)
}

func DecodeSVD(data []byte) (*SVD, error) {
	var a SVDArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, invalidArtifact("svd: decode: %v", err)
	}
	return NewSVD(a.RawIDs, a.Qi)
}

func LoadKNNFile(path string) (*KNN, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knn artifact: %w", err)
	}
	return DecodeKNN(data)
}

func LoadSVDFile(path string) (*SVD, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read svd artifact: %w", err)
	}
	return DecodeSVD(data)
}

// EncodeKNN 序列化 KNN 模型，与 DecodeKNN 对应。
func EncodeKNN(m *KNN) ([]byte, error) {
	data, err := json.Marshal(KNNArtifact{RawIDs: m.rawIDs, Sim: m.sim})
	if err != nil {
		return nil, fmt.Errorf("encode knn artifact: %w", err)
	}
	return data, nil
}

func EncodeSVD(m *SVD) ([]byte, error) {
	data, err := json.Marshal(SVDArtifact{RawIDs: m.rawIDs, Qi: m.qi})
	if err != nil {
		return nil, fmt.Errorf("encode svd artifact: %w", err)
	}
	return data, nil
}
