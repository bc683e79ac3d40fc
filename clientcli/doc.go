// Package clientcli provides a client library for interacting with cloud file servers.
//
// It supports login, upload, download, rename, delete, and list operations with
// session token authentication. The package includes profile-based configuration
// for managing connections to multiple servers.
//
// # Basic Usage
//
// Create a client, log in, and upload a file:
//
//	cfg := &clientcli.Config{
//		Endpoint: "http://localhost:8081",
//	}
//
//	client, err := clientcli.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	token, err := client.Login(ctx, "alice", "secret")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	results, err := client.Upload(ctx, clientcli.UploadOptions{
//		LocalPath:  "./file.txt",
//		RemoteName: "file.txt",
//	})
//
// # Profile Configuration
//
// Use profiles to manage multiple server configurations:
//
//	configFile, err := clientcli.LoadConfigFile("~/.cloud/config.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	profile, err := configFile.GetProfile("production")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	cfg := clientcli.ConfigFromProfile(profile)
//	client, err := clientcli.New(cfg)
//
// # Output Formatting
//
// Use formatters for human-readable or JSON output:
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatUpload(os.Stdout, results)
package clientcli
