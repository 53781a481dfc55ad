// Package fixtures 提供测试数据工厂。
package fixtures

// ExperienceEntries 返回样例工作经历，每条可单独写入向量存储
func ExperienceEntries() []string {
	return []string{
		"Led migration of a monolithic Go billing service to Kubernetes, cutting deploy time from hours to minutes",
		"Built Python data pipelines loading 2TB of events per day into a SQL warehouse",
		"Designed a gRPC API gateway in Go serving 40k requests per second",
		"Mentored four engineers and ran the team's on-call rotation",
	}
}

// JobDescription 是样例职位描述
const JobDescription = "Senior backend engineer: Go, Kubernetes, high-throughput APIs"

// BulletPoints 是 BulletPointsJSON 对应的要点
var BulletPoints = []string{
	"Migrated a Go billing monolith to Kubernetes, reducing deploys from hours to minutes",
	"Designed a Go gRPC gateway sustaining 40k requests per second",
}

// BulletPointsJSON 是结构化输出的样例回复
const BulletPointsJSON = `{"bullet_points":["Migrated a Go billing monolith to Kubernetes, reducing deploys from hours to minutes","Designed a Go gRPC gateway sustaining 40k requests per second"]}`

// FencedBulletPointsJSON 把 BulletPointsJSON 包在 markdown 代码块中
const FencedBulletPointsJSON = "Here are the bullet points:\n```json\n" + BulletPointsJSON + "\n```"
