/*
Package codec 提供类型安全的 JSON 编解码与 JSON Schema 生成。

JSONCodec[T] 负责：

  - Encode / Decode：T 与 JSON 字节之间的转换
  - ToObject / FromObject：T 与通用 JSON 对象 (map[string]any) 之间的转换
  - Schema / SchemaJSON：基于 github.com/invopop/jsonschema 反射生成 T 的
    JSON Schema，供 llm.WithStructuredOutput 使用

rag.VectorStore 使用同一个 codec 编码元数据并在过滤前解码；
结构化输出通过 ExtractJSON 去除 markdown 代码块后再解码。
*/
package codec
