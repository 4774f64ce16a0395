package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ticney/archi-planning/internal/model"
	"github.com/ticney/archi-planning/internal/repository"
)

// TopicRule 议题规则: 必交证明清单 + 评审时长
type TopicRule struct {
	Proofs   []string // 证明类型,顺序即清单顺序
	Duration int      // 评审时长(分钟)
}

// staticTopicRules 内置议题规则表
// 数据库无配置时的兜底来源,保证目录始终可用
var staticTopicRules = map[string]TopicRule{
	"standard": {
		Proofs:   []string{"dat_sheet", "architecture_diagram"},
		Duration: 30,
	},
	"strategic": {
		Proofs:   []string{"dat_sheet", "security_signoff", "finops_approval"},
		Duration: 60,
	},
}

// staticTopicOrder 内置议题的稳定枚举顺序
var staticTopicOrder = []string{"standard", "strategic"}

// RequirementSource 证明清单来源接口
// 静态表与持久化配置通过同一抽象接入,调用方不感知来源
type RequirementSource interface {
	// ProofsForTopic 返回议题的必交证明清单,未配置返回 (nil, false)
	ProofsForTopic(topic string) ([]string, bool, error)
}

// StaticRequirementSource 内置静态规则来源
type StaticRequirementSource struct{}

// NewStaticRequirementSource 创建静态规则来源
func NewStaticRequirementSource() *StaticRequirementSource {
	return &StaticRequirementSource{}
}

// ProofsForTopic 从内置规则表读取证明清单
func (s *StaticRequirementSource) ProofsForTopic(topic string) ([]string, bool, error) {
	rule, ok := staticTopicRules[topic]
	if !ok {
		return nil, false, nil
	}
	proofs := make([]string, len(rule.Proofs))
	copy(proofs, rule.Proofs)
	return proofs, true, nil
}

// dbRequirementSource 持久化配置来源
// 议题存在配置行时以数据库为准
type dbRequirementSource struct {
	repo repository.RequirementRepository
}

// NewDBRequirementSource 创建持久化配置来源
func NewDBRequirementSource(repo repository.RequirementRepository) RequirementSource {
	return &dbRequirementSource{repo: repo}
}

// ProofsForTopic 从 proof_requirements 表读取证明清单
func (s *dbRequirementSource) ProofsForTopic(topic string) ([]string, bool, error) {
	rows, err := s.repo.FindByTopic(topic)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	proofs := make([]string, 0, len(rows))
	for _, row := range rows {
		proofs = append(proofs, row.ProofKind)
	}
	return proofs, true, nil
}

// CatalogService 议题目录服务接口
// 负责议题 → 必交证明清单/评审时长的解析与管理
type CatalogService interface {
	RequirementsForTopic(topic string) ([]string, int, error)
	DurationForTopic(topic string) (int, error)
	MaxDuration() int
	Topics() []string
	AddRequirement(topic string, proofKind string) error
	RemoveRequirement(topic string, proofKind string) error
}

// catalogService 议题目录服务实现
// 解析顺序: 持久化配置优先,内置规则兜底;时长始终来自内置规则表
type catalogService struct {
	sources []RequirementSource
	repo    repository.RequirementRepository
}

// NewCatalogService 创建议题目录服务
// repo 为 nil 时退化为纯静态目录(用于无数据库场景)
func NewCatalogService(repo repository.RequirementRepository) CatalogService {
	sources := []RequirementSource{}
	if repo != nil {
		sources = append(sources, NewDBRequirementSource(repo))
	}
	sources = append(sources, NewStaticRequirementSource())
	return &catalogService{
		sources: sources,
		repo:    repo,
	}
}

// RequirementsForTopic 解析议题的必交证明清单与评审时长
func (s *catalogService) RequirementsForTopic(topic string) ([]string, int, error) {
	duration, err := s.DurationForTopic(topic)
	if err != nil {
		return nil, 0, err
	}

	for _, src := range s.sources {
		proofs, ok, err := src.ProofsForTopic(topic)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to resolve requirements: %w", err)
		}
		if ok {
			return proofs, duration, nil
		}
	}

	// 时长可解析但清单无任何来源,按未配置处理
	return nil, 0, ErrTopicNotConfigured
}

// DurationForTopic 解析议题的评审时长
// 时长是议题自身属性,与配置了多少证明无关
func (s *catalogService) DurationForTopic(topic string) (int, error) {
	rule, ok := staticTopicRules[topic]
	if !ok {
		return 0, ErrTopicNotConfigured
	}
	return rule.Duration, nil
}

// MaxDuration 返回所有议题中最长的评审时长(分钟)
// 预订冲突检索窗口以此为精确上界
func (s *catalogService) MaxDuration() int {
	max := 0
	for _, rule := range staticTopicRules {
		if rule.Duration > max {
			max = rule.Duration
		}
	}
	return max
}

// Topics 返回所有已知议题
func (s *catalogService) Topics() []string {
	topics := make([]string, len(staticTopicOrder))
	copy(topics, staticTopicOrder)
	return topics
}

// AddRequirement 为议题追加一项必交证明
// 幂等: 已存在时不报错不重复
func (s *catalogService) AddRequirement(topic string, proofKind string) error {
	if s.repo == nil {
		return fmt.Errorf("dynamic catalog is not available")
	}
	if _, err := s.DurationForTopic(topic); err != nil {
		return err
	}

	exists, err := s.repo.Exists(topic, proofKind)
	if err != nil {
		return fmt.Errorf("failed to check requirement: %w", err)
	}
	if exists {
		return nil
	}

	// 首次写入某议题时,先落库内置清单,保证后续增删基于完整配置
	rows, err := s.repo.FindByTopic(topic)
	if err != nil {
		return fmt.Errorf("failed to load requirements: %w", err)
	}
	if len(rows) == 0 {
		for i, kind := range staticTopicRules[topic].Proofs {
			if kind == proofKind {
				continue
			}
			if err := s.repo.Save(&model.ProofRequirementModel{
				ID:        uuid.New().String(),
				Topic:     topic,
				ProofKind: kind,
				Position:  i + 1,
				CreatedAt: time.Now(),
			}); err != nil {
				return fmt.Errorf("failed to seed requirements: %w", err)
			}
		}
	}

	maxPos, err := s.repo.MaxPosition(topic)
	if err != nil {
		return fmt.Errorf("failed to resolve position: %w", err)
	}

	return s.repo.Save(&model.ProofRequirementModel{
		ID:        uuid.New().String(),
		Topic:     topic,
		ProofKind: proofKind,
		Position:  maxPos + 1,
		CreatedAt: time.Now(),
	})
}

// RemoveRequirement 删除议题下的一项必交证明
// 幂等: 不存在时为空操作
func (s *catalogService) RemoveRequirement(topic string, proofKind string) error {
	if s.repo == nil {
		return fmt.Errorf("dynamic catalog is not available")
	}
	if _, err := s.DurationForTopic(topic); err != nil {
		return err
	}

	// 数据库尚无该议题配置时,删除需先固化内置清单,否则无从体现删除结果
	rows, err := s.repo.FindByTopic(topic)
	if err != nil {
		return fmt.Errorf("failed to load requirements: %w", err)
	}
	if len(rows) == 0 {
		for i, kind := range staticTopicRules[topic].Proofs {
			if err := s.repo.Save(&model.ProofRequirementModel{
				ID:        uuid.New().String(),
				Topic:     topic,
				ProofKind: kind,
				Position:  i + 1,
				CreatedAt: time.Now(),
			}); err != nil {
				return fmt.Errorf("failed to seed requirements: %w", err)
			}
		}
	}

	return s.repo.Remove(topic, proofKind)
}
