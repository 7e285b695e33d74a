package uuid

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// SnowNode 雪花算法节点，每个服务实例使用不同的 node id
type SnowNode struct {
	node *snowflake.Node
}

// NewNode 创建雪花节点，nodeId 取值 0~1023
func NewNode(nodeId int64) *SnowNode {
	node, err := snowflake.NewNode(nodeId)
	if err != nil {
		panic(err)
	}
	return &SnowNode{node: node}
}

// GenSnowID 生成全局唯一的 int64 id
func (s *SnowNode) GenSnowID() int64 {
	return s.node.Generate().Int64()
}

// GenUUID 生成标准格式 uuid
func GenUUID() string {
	return uuid.NewString()
}

// GenUUID16 生成16位的请求id
func GenUUID16() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}
