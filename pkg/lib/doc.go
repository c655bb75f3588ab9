// Package lib 包含基础设施工具库
//
// 本目录包含与会话组件无关的通用工具库：
//
//   - log: 日志封装
//
// pkg/ 目录包含三类内容：
//
//   - interfaces/: 组件公共接口
//   - types/: 公共类型定义
//   - lib/: 基础设施工具库（本目录）
package lib
