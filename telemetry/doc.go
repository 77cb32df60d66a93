/*
Package telemetry traces blobfs adapters with OpenTelemetry.

NewProvider builds a tracer provider exporting over OTLP/HTTP:

	provider, err := telemetry.NewProvider(ctx, telemetry.ProviderConfig{
	    ServiceName: "uploader",
	    Endpoint:    "http://localhost:4318",
	})
	if err != nil {
	    return err
	}
	defer provider.Shutdown(context.Background())

NewAdapter wraps any adapter, recording one span per call with the blobfs.operation and blobfs.path attributes and
an error status when the call fails:

	fs := blobfs.New(telemetry.NewAdapter(azure.NewAdapter(...), provider.Tracer()), nil)

A nil tracer uses the global provider, see Provider.SetGlobal. To trace every disk of a manager, decorate the
adapters it builds:

	manager := disk.NewManager(cfg, disk.WithDecorator(provider.Decorate))
*/
package telemetry
