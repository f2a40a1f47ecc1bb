package ports

const (
	welcomeReply = "Hi! I'm a bot for tracking Ethereum wallet transactions. Send /help for a list of commands."

	helpReply = "/start - Start the bot\n" +
		"/set_wallet - Choose the Ethereum wallet to track\n" +
		"/check_transactions - Show the latest transactions of your wallet\n" +
		"/balance - Show the balance of your wallet\n" +
		"/cancel - Cancel setting a wallet"

	askWalletReply        = "Enter the address of your Ethereum wallet:"
	emptyWalletReply      = "The wallet address can't be empty. Enter the address of your Ethereum wallet, or /cancel:"
	walletTrackedReplyFmt = "Wallet %s is now being tracked."

	walletNotSetReply = "You haven't set a wallet address. Use the /set_wallet command."

	transactionsFailedReply = "Failed to fetch transactions. Check that the wallet address is correct."
	balanceFailedReply      = "Failed to fetch the balance. Check that the wallet address is correct."
	unavailableReply        = "The explorer is unavailable right now. Please try again later."
	balanceReplyFmt         = "Wallet balance: %s ETH"

	cancelledReply       = "Cancelled. Your wallet was not changed."
	nothingToCancelReply = "There is nothing to cancel."

	fallbackReply    = "Sorry, I didn't understand that. Send /help for a list of commands."
	rateLimitedReply = "You're sending messages too quickly. Please wait a moment."
	internalErrReply = "Something went wrong. Please try again later."
)
