// Copyright 2025 Voxflow Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cluster

import "github.com/voxflow/voxflow/internal/engine/model"

// DefaultStepTypes maps shared step names to the worker queues serving
// them. Individual steps may override via Step.StepType.
func DefaultStepTypes() map[string]string {
	return map[string]string{
		"speech2text":       string(model.StepSpeech2Text),
		"emotion_detection": string(model.StepEmotionDetection),
		"quantization_llm":  string(model.StepQuantizationLLM),
		"hf_llm":            string(model.StepHFLLM),
		"text2speech":       string(model.StepText2Speech),
		"openai_s2t":        string(model.StepOpenAIS2T),
		"openai_llm":        string(model.StepOpenAILLM),
		"openai_t2s":        string(model.StepOpenAIT2S),
		"rag":               string(model.StepRAG),
	}
}

// DefaultClusters is the built-in conversation pipeline catalog.
//
//	chat           本地量化模型会话链
//	empathic_chat  带情绪识别的会话链
//	cloud_chat     OpenAI 托管会话链
func DefaultClusters() []Cluster {
	return []Cluster{
		{
			Name: "chat",
			Steps: []Step{
				{Name: "speech2text", Order: 10, Component: ComponentTask},
				{Name: "text_created", Order: 20, Component: ComponentSignal},
				{Name: "quantization_llm", Order: 30, Component: ComponentTask},
				{Name: "text2speech", Order: 40, Component: ComponentTask},
			},
		},
		{
			Name: "empathic_chat",
			Steps: []Step{
				{Name: "speech2text", Order: 10, Component: ComponentTask},
				{Name: "text_created", Order: 20, Component: ComponentSignal},
				{Name: "emotion_detection", Order: 30, Component: ComponentTask},
				{Name: "hf_llm", Order: 40, Component: ComponentTask, ExtraParams: map[string]any{"use_emotion": true}},
				{Name: "text2speech", Order: 50, Component: ComponentTask},
			},
		},
		{
			Name: "cloud_chat",
			Steps: []Step{
				{Name: "openai_s2t", Order: 10, Component: ComponentTask},
				{Name: "text_created", Order: 20, Component: ComponentSignal},
				{Name: "openai_llm", Order: 30, Component: ComponentTask},
				{Name: "openai_t2s", Order: 40, Component: ComponentTask},
			},
		},
	}
}

// DefaultRegistry builds the registry over the built-in catalog. The
// catalog is static, a validation failure here is a programming error.
func DefaultRegistry() *Registry {
	reg, err := NewRegistry(DefaultClusters(), DefaultStepTypes())
	if err != nil {
		panic(err)
	}
	return reg
}
