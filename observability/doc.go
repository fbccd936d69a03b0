// Package observability wires OpenTelemetry tracing and metrics for
// transcription requests.
//
//	shutdown, err := observability.Setup(ctx, cfg.Telemetry, "voicenote", version, env)
//	defer shutdown(ctx)
//
//	oc := observability.NewOperation("process", requestID, "local", metrics)
//	ctx, span := oc.Begin(ctx, observability.SpanProcess, len(audio))
//	stageCtx, end := oc.Stage(ctx, observability.SpanTranscribe, "transcription")
//	end("", nil)
//	oc.Finish(ctx, span, "transcribed", nil)
//
// With no endpoint configured the global no-op providers are used.
package observability
