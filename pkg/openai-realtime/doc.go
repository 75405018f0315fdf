// Package openairealtime is a websocket client for OpenAI's Realtime API.
//
// A session is opened once per conversation and carries JSON events in both
// directions. Audio is exchanged as base64 chunks inside those events.
//
//	client := openairealtime.NewClient(apiKey)
//	session, err := client.ConnectWebSocket(ctx, &openairealtime.ConnectConfig{
//	    Model: openairealtime.ModelGPT4oRealtimePreview20241217,
//	})
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	err = session.UpdateSession(&openairealtime.SessionConfig{
//	    Voice:             openairealtime.VoiceAlloy,
//	    InputAudioFormat:  openairealtime.AudioFormatG711ULaw,
//	    OutputAudioFormat: openairealtime.AudioFormatG711ULaw,
//	    Tools:             tools,
//	    ToolChoice:        openairealtime.ToolChoiceAuto,
//	})
//
// # Receiving Events
//
//	for event, err := range session.Events() {
//	    if err != nil {
//	        return err
//	    }
//	    switch event.Type {
//	    case openairealtime.EventTypeResponseAudioDelta:
//	        play(event.Audio)
//	    case openairealtime.EventTypeResponseFunctionCallArgumentsDone:
//	        out := run(event.Name, event.Arguments)
//	        session.AddFunctionCallOutput(event.CallID, out)
//	        session.CreateResponse(&openairealtime.ResponseCreateOptions{Tools: tools})
//	    }
//	}
//
// The protocol itself is owned by the vendor; this package only names its
// event types and shapes.
package openairealtime
