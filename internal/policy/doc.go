// Package policy reads mapper policies.
//
// A policy is a set of fluent call chains recorded on a Config:
//
//	cfg := policy.NewConfig()
//	cfg.ForCreation().
//		Try(policy.UseStaticFactories).
//		MapParameter("price").FromSource("Money{Amount: src.PriceAmount}")
//	cfg.ForModification().IgnoreID().Ignore("d => d.Slug")
//
// Parse reduces the chains rooted at one plan kind into a Descriptor: an
// ordered strategy list, member and parameter overrides and an ignore set.
// A nil Config yields the default policy of the kind.
package policy
