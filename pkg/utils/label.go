package utils

import "strings"

// Label 记录一部电影在推荐链路中经过的来源，可解释、可透传。
// 例如 recall_source=knn 表示由近邻模型召回，fallback=mf 表示 mf 策略降级到热门榜。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / filter / rerank / service
}

// Label 的 Source 取值
const (
	SourceRecall  = "recall"
	SourceFilter  = "filter"
	SourceReRank  = "rerank"
	SourceService = "service"
)

const (
	valueSep  = "|"
	sourceSep = ","
)

// MergeLabel 合并同名 Label：Value 以 '|' 累积，Source 以 ',' 累积，已有的值不重复追加。
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}
	return Label{
		Value:  appendUnique(existing.Value, incoming.Value, valueSep),
		Source: appendUnique(existing.Source, incoming.Source, sourceSep),
	}
}

// Values 返回累积的所有 Value。
func (l Label) Values() []string {
	if l.Value == "" {
		return nil
	}
	return strings.Split(l.Value, valueSep)
}

// Has 判断 Value 中是否包含 v。
func (l Label) Has(v string) bool {
	for _, x := range l.Values() {
		if x == v {
			return true
		}
	}
	return false
}

func appendUnique(joined, v, sep string) string {
	switch {
	case joined == "":
		return v
	case v == "":
		return joined
	}
	for _, x := range strings.Split(joined, sep) {
		if x == v {
			return joined
		}
	}
	return joined + sep + v
}
