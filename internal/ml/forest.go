package ml

import (
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
)

// ErrNotTrained 在模型尚未训练时由调用方返回
var ErrNotTrained = errors.New("模型尚未训练")

// FeatureDim 参与度分类器的特征维度:
// hour_norm, weekday_norm, sentiment_scaled, recent_activity, category_engagement
const FeatureDim = 5

// Sample 训练样本
type Sample struct {
	Features []float64
	Label    int // 1=接受 0=拒绝
}

// ForestConfig 训练配置
type ForestConfig struct {
	Trees    int
	MaxDepth int
	Seed     int64
}

// DefaultForestConfig 默认超参数
func DefaultForestConfig() ForestConfig {
	return ForestConfig{Trees: 50, MaxDepth: 5, Seed: 1}
}

// Node 决策树节点（导出字段用于 gob 序列化）
type Node struct {
	Leaf      bool
	Prob      float64 // 叶节点：正类比例
	Feature   int
	Threshold float64
	Left      *Node
	Right     *Node
}

// Forest 有界深度随机森林二分类器
type Forest struct {
	Trees      []*Node
	NumFeature int
}

// Train 批量训练森林。样本不足两类时返回错误（无法切分）
func Train(samples []Sample, cfg ForestConfig) (*Forest, error) {
	if cfg.Trees <= 0 {
		cfg.Trees = 50
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 5
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("训练样本为空")
	}

	dim := len(samples[0].Features)
	for _, s := range samples {
		if len(s.Features) != dim {
			return nil, fmt.Errorf("样本特征维度不一致: %d != %d", len(s.Features), dim)
		}
	}

	var pos, neg int
	for _, s := range samples {
		if s.Label == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return nil, fmt.Errorf("训练样本只有单一类别 (pos=%d neg=%d)", pos, neg)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	forest := &Forest{NumFeature: dim}

	for i := 0; i < cfg.Trees; i++ {
		// Bootstrap 采样
		boot := make([]Sample, len(samples))
		for j := range boot {
			boot[j] = samples[rng.Intn(len(samples))]
		}
		forest.Trees = append(forest.Trees, buildTree(boot, cfg.MaxDepth, dim, rng))
	}

	return forest, nil
}

// PredictProba 返回正类概率（全树叶概率均值）
func (f *Forest) PredictProba(features []float64) (float64, error) {
	if f == nil || len(f.Trees) == 0 {
		return 0, fmt.Errorf("模型为空")
	}
	if len(features) != f.NumFeature {
		return 0, fmt.Errorf("特征维度不匹配: %d != %d", len(features), f.NumFeature)
	}

	var sum float64
	for _, tree := range f.Trees {
		sum += predictNode(tree, features)
	}
	return sum / float64(len(f.Trees)), nil
}

func predictNode(n *Node, features []float64) float64 {
	for !n.Leaf {
		if features[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Prob
}

// buildTree 递归构建单棵 CART 树
func buildTree(samples []Sample, depth, dim int, rng *rand.Rand) *Node {
	prob := positiveRate(samples)
	if depth <= 0 || len(samples) < 2 || prob == 0 || prob == 1 {
		return &Node{Leaf: true, Prob: prob}
	}

	feature, threshold, ok := bestSplit(samples, dim, rng)
	if !ok {
		return &Node{Leaf: true, Prob: prob}
	}

	var left, right []Sample
	for _, s := range samples {
		if s.Features[feature] <= threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &Node{Leaf: true, Prob: prob}
	}

	return &Node{
		Feature:   feature,
		Threshold: threshold,
		Left:      buildTree(left, depth-1, dim, rng),
		Right:     buildTree(right, depth-1, dim, rng),
	}
}

// bestSplit 在随机特征子集上按基尼不纯度选最优切分
func bestSplit(samples []Sample, dim int, rng *rand.Rand) (int, float64, bool) {
	// sqrt(d) 个候选特征
	k := int(math.Ceil(math.Sqrt(float64(dim))))
	candidates := rng.Perm(dim)[:k]

	bestGini := math.Inf(1)
	bestFeature := -1
	bestThreshold := 0.0

	for _, f := range candidates {
		values := make([]float64, 0, len(samples))
		for _, s := range samples {
			values = append(values, s.Features[f])
		}
		sort.Float64s(values)

		for i := 1; i < len(values); i++ {
			if values[i] == values[i-1] {
				continue
			}
			threshold := (values[i] + values[i-1]) / 2

			var lPos, lTot, rPos, rTot float64
			for _, s := range samples {
				if s.Features[f] <= threshold {
					lTot++
					if s.Label == 1 {
						lPos++
					}
				} else {
					rTot++
					if s.Label == 1 {
						rPos++
					}
				}
			}
			if lTot == 0 || rTot == 0 {
				continue
			}

			gini := (lTot*giniImpurity(lPos/lTot) + rTot*giniImpurity(rPos/rTot)) / (lTot + rTot)
			if gini < bestGini {
				bestGini = gini
				bestFeature = f
				bestThreshold = threshold
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func giniImpurity(p float64) float64 {
	return 2 * p * (1 - p)
}

func positiveRate(samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	var pos float64
	for _, s := range samples {
		if s.Label == 1 {
			pos++
		}
	}
	return pos / float64(len(samples))
}

// Save 将模型序列化到指定路径
func (f *Forest) Save(path string) error {
	if f == nil {
		return fmt.Errorf("模型为空")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建模型目录失败: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建模型文件失败: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(f); err != nil {
		return fmt.Errorf("序列化模型失败: %w", err)
	}
	return nil
}

// Load 从指定路径加载模型
func Load(path string) (*Forest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开模型文件失败: %w", err)
	}
	defer file.Close()

	var forest Forest
	if err := gob.NewDecoder(file).Decode(&forest); err != nil {
		return nil, fmt.Errorf("反序列化模型失败: %w", err)
	}
	if len(forest.Trees) == 0 {
		return nil, fmt.Errorf("模型文件不含任何树")
	}
	return &forest, nil
}
