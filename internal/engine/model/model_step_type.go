package model

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/01/18
 * @file: model_step_type.go
 * @description: step type catalog
 */

// StepType is the category of work a task belongs to. The set is
// open-ended: workers announce the step type they service and the engine
// never enumerates it in logic, only in the cluster catalog.
type StepType string

const (
	StepSpeech2Text      StepType = "speech2text"
	StepEmotionDetection StepType = "emotion_detection"
	StepQuantizationLLM  StepType = "quantization_llm"
	StepHFLLM            StepType = "hf_llm"
	StepText2Speech      StepType = "text2speech"
	StepOpenAIS2T        StepType = "openai_s2t"
	StepOpenAILLM        StepType = "openai_llm"
	StepOpenAIT2S        StepType = "openai_t2s"
	StepRAG              StepType = "rag"

	// StepAny is the wildcard used by workers polling for any kind of work.
	StepAny StepType = "any"
)
