// Package model 提供预训练模型产物的内存实现与加载。
//
// 模型本身在离线训练（不在本仓库范围内），这里只负责：
//   - IndexMap：目录电影 ID 与模型内部索引的双向映射
//   - KNN：物品-物品相似度矩阵，实现 core.NeighborhoodModel
//   - SVD：物品隐向量矩阵，实现 core.LatentFactorModel
//   - 从本地 JSON 文件加载产物，以及产物的编解码（Store 读写由 bootstrap 批量完成）
//
// 加载完成后模型只读，可在多个请求间无锁共享。
package model
